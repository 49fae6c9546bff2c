package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	domainErrors "github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/logger"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/validation"
)

// InternalErrorMessage is all a caller learns about unexpected failures.
const InternalErrorMessage = "internal error"

type toolHandler struct {
	branches  BranchService
	evaluator Evaluator
}

type branchesResponse struct {
	Branches []string `json:"branches"`
}

type branchResponse struct {
	Branch string `json:"branch"`
}

type scoreResponse struct {
	Score int `json:"score"`
}

func (h *toolHandler) handleGetAuthorBranches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := validation.BranchesRequest{
		Repository: repository(request),
		Since:      request.GetString("since", ""),
		Until:      request.GetString("until", ""),
	}
	q, err := req.Query()
	if err != nil {
		return toolError(ctx, "get_author_branches", err), nil
	}

	branches, err := h.branches.AuthorBranches(ctx, q)
	if err != nil {
		return toolError(ctx, "get_author_branches", err), nil
	}

	return jsonResult(branchesResponse{Branches: branches}), nil
}

func (h *toolHandler) handleCreateAuthorBranch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := validation.CreateBranchRequest{
		Repository: repository(request),
		Base:       request.GetString("base", ""),
	}
	if err := req.Validate(); err != nil {
		return toolError(ctx, "create_author_branch", err), nil
	}

	branch, err := h.branches.CreateAuthorBranch(ctx, req.Owner, req.Repo, req.Author, req.Base)
	if err != nil {
		return toolError(ctx, "create_author_branch", err), nil
	}

	return jsonResult(branchResponse{Branch: branch}), nil
}

func (h *toolHandler) verify(kind models.EvaluationKind) server.ToolHandlerFunc {
	tool := "verify_" + string(kind)
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := validation.CommitRequest{
			Repository: repository(request),
			Branch:     request.GetString("branch", ""),
		}
		if err := req.Validate(); err != nil {
			return toolError(ctx, tool, err), nil
		}

		ref := req.Reference()
		if sha := request.GetString("sha", ""); sha != "" {
			if err := validation.SHA(sha); err != nil {
				return toolError(ctx, tool, err), nil
			}
			ref.SHA = sha
		}

		report, err := h.evaluator.Evaluate(ctx, kind, ref, nil)
		if err != nil {
			return toolError(ctx, tool, err), nil
		}

		if request.GetBool("details", false) {
			return jsonResult(report), nil
		}
		return jsonResult(scoreResponse{Score: report.Score}), nil
	}
}

func repository(request mcp.CallToolRequest) validation.Repository {
	return validation.Repository{
		Owner:  request.GetString("owner", ""),
		Repo:   request.GetString("repo", ""),
		Author: request.GetString("author", ""),
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func toolError(ctx context.Context, tool string, err error) *mcp.CallToolResult {
	logger.Error(ctx, "tool call failed", err, "tool", tool)
	return mcp.NewToolResultError(PublicMessage(err))
}

// PublicMessage reduces err to what a tool caller may see: validation
// problems and the evaluation outcomes that abort a request are named, the
// rest collapse to InternalErrorMessage.
func PublicMessage(err error) string {
	var appErr *domainErrors.AppError
	if !stderrors.As(err, &appErr) {
		return InternalErrorMessage
	}

	switch appErr.Type {
	case domainErrors.TypeValidation:
		if reason, ok := appErr.Context["reason"].(string); ok {
			return fmt.Sprintf("%s: %s", appErr.Message, reason)
		}
		return appErr.Message
	case domainErrors.TypeUnsupportedLanguage,
		domainErrors.TypeNoCommitForAuthor,
		domainErrors.TypeCommitNotFound,
		domainErrors.TypeNoProjectFile,
		domainErrors.TypeCancelled:
		return fmt.Sprintf("%s: %s", appErr.Type, appErr.Message)
	default:
		return InternalErrorMessage
	}
}
