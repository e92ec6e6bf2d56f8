package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"time"

	ierr "github.com/mark3labs/astroguide/internal/errors"
	"github.com/mark3labs/astroguide/internal/intake"
	"github.com/mark3labs/astroguide/internal/report"
	"github.com/mark3labs/astroguide/internal/resolver"
	"github.com/mark3labs/astroguide/internal/wizard"
	"github.com/mark3labs/mcp-go/mcp"
)

// Submitter runs a calculation for birth details.
type Submitter interface {
	Submit(ctx context.Context, f intake.Form) (string, error)
}

// Resolver resolves a record to cities.
type Resolver interface {
	Resolve(ctx context.Context, rec wizard.Record) (resolver.Outcome, error)
}

func (s *Server) handleListFocuses(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	for _, f := range wizard.Focuses {
		fmt.Fprintf(&b, "- %s (%s, ruled by %s): %s\n", f.Focus, f.Title, f.Focus.Planet(), f.Description)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleCalculate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	form := intake.Form{
		BirthDate:       request.GetString("birth_date", ""),
		BirthTime:       request.GetString("birth_time", ""),
		BirthLocation:   request.GetString("birth_location", ""),
		CurrentLocation: request.GetString("current_location", ""),
	}
	// Current location only matters for saved readings.
	if strings.TrimSpace(form.CurrentLocation) == "" {
		form.CurrentLocation = form.BirthLocation
	}

	handle, err := s.submitter.Submit(ctx, form)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("result_id: %s", handle)), nil
}

func (s *Server) handleResolveCities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	handle, err := request.RequireString("result_id")
	if err != nil {
		return mcp.NewToolResultText("error: missing 'result_id' parameter"), nil
	}
	rawFocus, err := request.RequireString("focus")
	if err != nil {
		return mcp.NewToolResultText("error: missing 'focus' parameter"), nil
	}
	focus, err := wizard.ParseFocus(rawFocus)
	if err != nil {
		return mcp.NewToolResultText("error: " + err.Error()), nil
	}

	rec := wizard.Record{ResultHandle: handle, Focus: focus, SelectedPlanet: focus.Planet()}
	out, err := s.resolver.Resolve(ctx, rec)
	if err != nil {
		return toolError(err), nil
	}

	md := report.Markdown(report.Reading{Outcome: out, CreatedAt: time.Now()})
	return mcp.NewToolResultText(md), nil
}

// toolError reports a classified failure as tool output so the client can
// show it; protocol errors are reserved for transport problems.
func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s: %s", ierr.KindOf(err), ierr.UserMessage(err)))
}
