package in

import (
	"context"

	progressdto "storydeck/internal/modules/progress/dto"
	progressin "storydeck/internal/modules/progress/port/in"
)

type CLIHandler struct {
	usecase progressin.Usecase
}

func NewCLIHandler(usecase progressin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Progress(ctx context.Context) (progressdto.ProgressOutput, error) {
	return h.usecase.GetProgress(ctx)
}

func (h CLIHandler) Complete(ctx context.Context, ordinal int) (progressdto.ProgressOutput, error) {
	return h.usecase.CompleteChapter(ctx, progressdto.CompleteChapterInput{Ordinal: ordinal})
}

func (h CLIHandler) SetName(ctx context.Context, name string) (progressdto.ProgressOutput, error) {
	return h.usecase.SetDisplayName(ctx, progressdto.SetDisplayNameInput{Name: name})
}

func (h CLIHandler) Reset(ctx context.Context) error {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) Certificate(ctx context.Context, write bool) (progressdto.CertificateOutput, error) {
	return h.usecase.Certificate(ctx, progressdto.CertificateInput{Write: write})
}

func (h CLIHandler) GameAccess(ctx context.Context) (progressdto.GameAccessOutput, error) {
	return h.usecase.GameAccess(ctx)
}
