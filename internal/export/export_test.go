package export

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensing-map/internal/catalog"
)

func fixture() ([]catalog.Bundle, []catalog.Capability) {
	caps := []catalog.Capability{
		{ID: "word", Name: "Word", Description: `Docs, "rich" text`, Category: catalog.CategoryProductivity},
		{ID: "entra", Name: "Entra ID", Description: "Identity", Category: catalog.CategorySecurity,
			TierStructure: &catalog.TierStructure{Tiers: []catalog.Tier{
				{Name: "Plan 2", IncludedInBundleIDs: []string{"e5"}},
			}}},
		{ID: "orphan", Name: "Orphan", Category: catalog.CategoryCompliance},
	}
	bundles := []catalog.Bundle{
		{ID: "bp", Name: "Business Premium", MonthlyPriceUSD: "$22.00", MonthlyPriceINR: "₹1,830", CapabilityIDs: []string{"word", "entra"}},
		{ID: "e5", Name: "E5", MonthlyPriceUSD: "$57.00", MonthlyPriceINR: "₹4,500", CapabilityIDs: []string{"entra"}},
	}
	return bundles, caps
}

func TestRecords(t *testing.T) {
	bundles, caps := fixture()

	records := Records(bundles, caps)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Productivity", "Word", `Docs, "rich" text`, "Yes", "No"}, records[0])
	assert.Equal(t, []string{"Security", "Entra ID", "Identity", "Yes", "Plan 2"}, records[1])
}

func TestRenderIsParseableCSV(t *testing.T) {
	bundles, caps := fixture()

	body, err := Render(bundles, caps)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Category", "Feature", "Description", "Business Premium ($22.00/₹1,830)", "E5 ($57.00/₹4,500)"}, rows[0])
	assert.Equal(t, `Docs, "rich" text`, rows[1][2])
	assert.True(t, strings.HasPrefix(string(body), `"Category","Feature"`))
}

func TestRenderNoSelection(t *testing.T) {
	_, caps := fixture()
	body, err := Render(nil, caps)
	require.NoError(t, err)
	assert.Equal(t, "\"Category\",\"Feature\",\"Description\"\n", string(body))
}

func TestFileName(t *testing.T) {
	ts := time.Date(2026, 3, 4, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "m365_comparison_2026-03-04.csv", FileName(ts))
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3ArchiverArchive(t *testing.T) {
	putter := &fakePutter{}
	a := &S3Archiver{client: putter, bucket: "licensing-exports", prefix: "exports"}

	require.NoError(t, a.Archive(context.Background(), "m365_comparison_2026-03-04.csv", []byte("a,b\n")))
	assert.Equal(t, "licensing-exports", *putter.input.Bucket)
	assert.Equal(t, "exports/m365_comparison_2026-03-04.csv", *putter.input.Key)
	assert.Equal(t, "a,b\n", putter.body)

	putter.err = errors.New("denied")
	assert.Error(t, a.Archive(context.Background(), "x.csv", nil))

	// ArchiveQuietly swallows both the nil archiver and the failure.
	ArchiveQuietly(context.Background(), nil, "x.csv", nil)
	ArchiveQuietly(context.Background(), a, "x.csv", nil)
}
