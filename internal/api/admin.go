package api

import (
	"fmt"
	"net/http"

	"licensing-map/internal/catalog"
	"licensing-map/internal/editor"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleCreateCapability(c *gin.Context) {
	var capability catalog.Capability
	if err := c.ShouldBindJSON(&capability); err != nil {
		badRequest(c, "invalid capability: "+err.Error())
		return
	}
	created, err := s.editor.CreateCapability(capability)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateCapability(c *gin.Context) {
	var capability catalog.Capability
	if err := c.ShouldBindJSON(&capability); err != nil {
		badRequest(c, "invalid capability: "+err.Error())
		return
	}
	capability.ID = c.Param("id")
	if err := s.editor.UpdateCapability(capability); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, capability)
}

func (s *Server) handleDeleteCapability(c *gin.Context) {
	if err := s.editor.DeleteCapability(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCreateBundle(c *gin.Context) {
	var b catalog.Bundle
	if err := c.ShouldBindJSON(&b); err != nil {
		badRequest(c, "invalid bundle: "+err.Error())
		return
	}
	created, err := s.editor.CreateBundle(b)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateBundle(c *gin.Context) {
	var b catalog.Bundle
	if err := c.ShouldBindJSON(&b); err != nil {
		badRequest(c, "invalid bundle: "+err.Error())
		return
	}
	b.ID = c.Param("id")
	if err := s.editor.UpdateBundle(b); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) handleDeleteBundle(c *gin.Context) {
	if err := s.editor.DeleteBundle(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleReset(c *gin.Context) {
	s.editor.Reset()
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

// ============================================================================
// Editor session
// ============================================================================

func (s *Server) handleEditorView(c *gin.Context) {
	c.JSON(http.StatusOK, s.editor.View())
}

type openRequest struct {
	Kind editor.Kind `json:"kind" binding:"required,oneof=capability bundle"`
	// Empty ID opens a new record.
	ID string `json:"id"`
}

func (s *Server) handleEditorOpen(c *gin.Context) {
	var req openRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "kind must be capability or bundle")
		return
	}

	var err error
	switch {
	case req.Kind == editor.KindCapability && req.ID == "":
		err = s.editor.NewCapability()
	case req.Kind == editor.KindCapability:
		err = s.editor.OpenCapability(req.ID)
	case req.ID == "":
		err = s.editor.NewBundle()
	default:
		err = s.editor.OpenBundle(req.ID)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.editor.View())
}

type editorOp struct {
	Op           string                   `json:"op" binding:"required"`
	Tier         int                      `json:"tier"`
	Statement    int                      `json:"statement"`
	Tiers        []int                    `json:"tiers"`
	Value        string                   `json:"value"`
	BundleID     string                   `json:"bundleId"`
	CapabilityID string                   `json:"capabilityId"`
	Direction    editor.Direction         `json:"direction"`
	Mode         editor.BulkMode          `json:"mode"`
	Confirm      bool                     `json:"confirm"`
	Capability   *editor.CapabilityFields `json:"capability"`
	Bundle       *editor.BundleFields     `json:"bundle"`
}

func (s *Server) handleEditorOp(c *gin.Context) {
	var op editorOp
	if err := c.ShouldBindJSON(&op); err != nil {
		badRequest(c, "op is required")
		return
	}
	if err := s.applyOp(op); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.editor.View())
}

func (s *Server) applyOp(op editorOp) error {
	switch op.Op {
	case "set_fields":
		if op.Bundle != nil {
			return s.editor.EditBundle(func(d *editor.BundleDraft) error {
				d.SetFields(*op.Bundle)
				return nil
			})
		}
		if op.Capability != nil {
			return s.editor.EditCapability(func(d *editor.CapabilityDraft) error {
				d.SetFields(*op.Capability)
				return nil
			})
		}
		return fmt.Errorf("%w: set_fields needs capability or bundle fields", editor.ErrWrongDraftKind)
	case "toggle_capability":
		return s.editor.EditBundle(func(d *editor.BundleDraft) error {
			d.ToggleCapability(op.CapabilityID)
			return nil
		})
	}

	return s.editor.EditCapability(func(d *editor.CapabilityDraft) error {
		switch op.Op {
		case "set_tier_title":
			return d.SetTierTitle(op.Value)
		case "add_tier":
			d.AddTier()
			return nil
		case "remove_tier":
			return d.RemoveTier(op.Tier, op.Confirm)
		case "move_tier":
			return d.MoveTier(op.Tier, op.Direction)
		case "rename_tier":
			return d.RenameTier(op.Tier, op.Value)
		case "toggle_bundle_in_tier":
			return d.ToggleBundleInTier(op.Tier, op.BundleID)
		case "add_statement":
			return d.AddStatement(op.Tier)
		case "update_statement":
			return d.UpdateStatement(op.Tier, op.Statement, op.Value)
		case "remove_statement":
			return d.RemoveStatement(op.Tier, op.Statement, op.Confirm)
		case "bulk_statements":
			return d.BulkStatements(op.Tiers, op.Value, op.Mode)
		default:
			return fmt.Errorf("%w: unknown op %q", editor.ErrWrongDraftKind, op.Op)
		}
	})
}

func (s *Server) handleEditorSave(c *gin.Context) {
	id, err := s.editor.Save()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "editor": s.editor.View()})
}

type confirmRequest struct {
	Confirm bool       `json:"confirm"`
	Tab     editor.Tab `json:"tab"`
}

func (s *Server) handleEditorDiscard(c *gin.Context) {
	var req confirmRequest
	_ = c.ShouldBindJSON(&req)
	if err := s.editor.Discard(req.Confirm); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.editor.View())
}

func (s *Server) handleEditorTab(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Tab == "" {
		badRequest(c, "tab is required")
		return
	}
	if err := s.editor.SwitchTab(req.Tab, req.Confirm); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.editor.View())
}
