package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"licensing-map/internal/aggregate"
	"licensing-map/internal/agent"
	"licensing-map/internal/catalog"
	"licensing-map/internal/entitlement"
	"licensing-map/internal/export"
	"licensing-map/internal/money"

	"github.com/gin-gonic/gin"
)

// selectedBundles reads ?bundles=a,b. An absent parameter selects the default
// comparison; an empty one selects nothing.
func (s *Server) selectedBundles(c *gin.Context) []catalog.Bundle {
	raw, ok := c.GetQuery("bundles")
	if !ok {
		return s.store.BundlesByID(catalog.DefaultComparisonBundleIDs())
	}
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return s.store.BundlesByID(ids)
}

func filterFromQuery(c *gin.Context) aggregate.Filter {
	return aggregate.Filter{
		Search:   c.Query("search"),
		Category: catalog.Category(c.Query("category")),
	}
}

func (s *Server) handleListBundles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"bundles": s.store.Bundles()})
}

func (s *Server) handleListCapabilities(c *gin.Context) {
	f := filterFromQuery(c)
	if f.Category != "" && !f.Category.IsValid() {
		badRequest(c, fmt.Sprintf("unknown category %q", f.Category))
		return
	}

	out := []catalog.Capability{}
	for _, capability := range s.store.Capabilities() {
		if f.Matches(capability) {
			out = append(out, capability)
		}
	}
	c.JSON(http.StatusOK, gin.H{"capabilities": out, "categories": catalog.Categories()})
}

type summaryResponse struct {
	aggregate.Summary
	FormattedUSD string             `json:"formattedUSD"`
	FormattedINR string             `json:"formattedINR"`
	Coverage     aggregate.Coverage `json:"coverage"`
	BundleIDs    []string           `json:"bundleIds"`
}

func (s *Server) handleSummary(c *gin.Context) {
	bundles := s.selectedBundles(c)
	f := aggregate.ParseFrequency(c.Query("frequency"))
	sum := aggregate.Summarize(bundles, f)

	ids := make([]string, len(bundles))
	for i, b := range bundles {
		ids[i] = b.ID
	}
	c.JSON(http.StatusOK, summaryResponse{
		Summary:      sum,
		FormattedUSD: money.Format(sum.TotalUSD, money.USD),
		FormattedINR: money.Format(sum.TotalINR, money.INR),
		Coverage:     aggregate.CoverageOf(bundles, s.store.Capabilities()),
		BundleIDs:    ids,
	})
}

func (s *Server) handleEntitlement(c *gin.Context) {
	bundleID, capabilityID := c.Query("bundle"), c.Query("capability")
	if bundleID == "" || capabilityID == "" {
		badRequest(c, "bundle and capability are required")
		return
	}

	b, err := s.store.Bundle(bundleID)
	if err != nil {
		writeError(c, err)
		return
	}
	capability, err := s.store.Capability(capabilityID)
	if err != nil {
		writeError(c, err)
		return
	}

	res := entitlement.Resolve(b, capability)
	c.JSON(http.StatusOK, gin.H{
		"bundleId":     b.ID,
		"capabilityId": capability.ID,
		"result":       res,
		"included":     res.Included(),
		"cell":         res.Cell(),
		"badge":        res.Badge(),
	})
}

func (s *Server) handleMatrix(c *gin.Context) {
	m := aggregate.BuildMatrix(s.selectedBundles(c), s.store.Capabilities(), filterFromQuery(c))
	c.JSON(http.StatusOK, m)
}

func (s *Server) handleExportCSV(c *gin.Context) {
	bundles := s.selectedBundles(c)
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, bundles, s.store.Capabilities()); err != nil {
		writeError(c, err)
		return
	}

	name := export.FileName(s.now())
	export.ArchiveQuietly(c.Request.Context(), s.archiver, name, buf.Bytes())

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

type chatRequest struct {
	SessionID string `json:"sessionId"`
	Question  string `json:"question" binding:"required"`
	Context   string `json:"context"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "question is required")
		return
	}

	planContext := req.Context
	if planContext == "" {
		planContext = agent.PlanContext(s.store.Bundles())
	}

	id, conv := s.chats.Get(req.SessionID)
	reply, err := conv.Send(c.Request.Context(), s.agent, req.Question, planContext)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionId": id,
		"reply":     reply,
		"messages":  conv.Messages(),
	})
}
