package api

import (
	"errors"
	"net/http"

	"licensing-map/internal/aggregate"
	"licensing-map/internal/users"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Passcode string `json:"passcode" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and passcode are required")
		return
	}

	account, err := s.users.Login(req.Username, req.Passcode)
	switch {
	case errors.Is(err, users.ErrInvalidPasscode):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid passcode"})
		return
	case errors.Is(err, users.ErrRegistrationPending):
		c.JSON(http.StatusAccepted, gin.H{"account": account, "message": err.Error()})
		return
	case errors.Is(err, users.ErrPendingApproval):
		c.JSON(http.StatusForbidden, gin.H{"error": "Pending approval", "message": err.Error()})
		return
	case err != nil:
		badRequest(c, err.Error())
		return
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "account": account})
}

func (s *Server) handleMe(c *gin.Context) {
	account, _ := currentAccount(c)
	c.JSON(http.StatusOK, account)
}

type frequencyRequest struct {
	Frequency string `json:"frequency" binding:"required,oneof=monthly annual"`
}

func (s *Server) handleSetFrequency(c *gin.Context) {
	var req frequencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "frequency must be monthly or annual")
		return
	}

	account, _ := currentAccount(c)
	f := aggregate.ParseFrequency(req.Frequency)
	if err := s.users.SetBillingFrequency(account.ID, f); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"billingFrequency": f})
}

func (s *Server) handleListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"users": s.users.List()})
}

func (s *Server) handleApproveUser(c *gin.Context) {
	if err := s.users.Approve(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	if err := s.users.Delete(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
