package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/resumeai/internal/client/models"
	"github.com/dmitrijs2005/resumeai/internal/common"
)

// Analyze reads a pasted resume and an optional target role and submits
// them for analysis.
func (a *App) Analyze(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNoSession
	}

	role, err := getSimpleText(a.reader, "Target role (optional)", a.out)
	if err != nil {
		return err
	}
	text, err := getMultiline(a.reader, "Paste your resume", a.out)
	if err != nil {
		return err
	}

	return a.submit(ctx, models.AnalysisRequest{Text: text, RoleTarget: role})
}

// Upload submits the PDF at path.
func (a *App) Upload(ctx context.Context, path string) error {
	if !a.isLoggedIn() {
		return common.ErrNoSession
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	role, err := getSimpleText(a.reader, "Target role (optional)", a.out)
	if err != nil {
		return err
	}

	return a.submit(ctx, models.AnalysisRequest{
		Upload:     &models.Upload{Data: data, Filename: filepath.Base(path)},
		RoleTarget: role,
	})
}

func (a *App) submit(ctx context.Context, req models.AnalysisRequest) error {
	fmt.Fprintln(a.out, "Analyzing, this can take up to a minute...")

	sub, err := a.analyzer.Submit(ctx, req)
	if err != nil {
		return err
	}

	printAnalysis(a.out, sub.Result)
	fmt.Fprintf(a.out, "\nAnalysis id: %s. Free analyses left: %d\n", sub.AnalysisID, sub.RemainingUses)
	return nil
}
