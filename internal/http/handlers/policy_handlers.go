package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/studiosvc/domain"
	"github.com/you/studiosvc/internal/http/middleware"
	"github.com/you/studiosvc/internal/logging"
)

// PolicyHandlers manages the route policies of the admin-only area
type PolicyHandlers struct {
	policies domain.PolicyService
	log      logging.Logger
}

func NewPolicyHandlers(policies domain.PolicyService, log logging.Logger) *PolicyHandlers {
	return &PolicyHandlers{policies: policies, log: log.With("component", "policy_handlers")}
}

type policyReq struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action"`
	Effect   string `json:"effect"`
}

type policyView struct {
	Role     string `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Effect   string `json:"effect"`
}

func (h *PolicyHandlers) List(c *gin.Context) {
	rules := h.policies.GetPolicies()
	views := make([]policyView, 0, len(rules))
	for _, r := range rules {
		if len(r) < 3 {
			continue
		}
		v := policyView{Role: r[0], Resource: r[1], Action: r[2], Effect: "allow"}
		if len(r) > 3 && r[3] != "" {
			v.Effect = r[3]
		}
		views = append(views, v)
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

func (h *PolicyHandlers) Add(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.policies.AddPolicy(r.Role, r.Resource, r.Action, r.Effect); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.changed(c, "add", r)
	c.Status(http.StatusCreated)
}

func (h *PolicyHandlers) Remove(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.policies.RemovePolicy(r.Role, r.Resource, r.Action, r.Effect); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.changed(c, "remove", r)
	c.Status(http.StatusNoContent)
}

func (h *PolicyHandlers) changed(c *gin.Context, op string, r policyReq) {
	var actor uint
	if p := middleware.PrincipalFrom(c); p != nil {
		actor = p.UserID
	}
	h.log.Info(c.Request.Context(), "policy changed", "op", op, "actor", actor,
		"role", r.Role, "resource", r.Resource, "action", r.Action, "effect", r.Effect)
}
