package usecase

import (
	"context"
	"fmt"
	"strings"

	"storydeck/internal/modules/progress/domain"
	progressdto "storydeck/internal/modules/progress/dto"
	progressin "storydeck/internal/modules/progress/port/in"
	progressout "storydeck/internal/modules/progress/port/out"
	"storydeck/internal/modules/progress/service"
	apperrors "storydeck/internal/platform/errors"
)

type Interactor struct {
	svc   *service.ProgressService
	certs progressout.CertificateStore
}

func NewInteractor(svc *service.ProgressService, certs progressout.CertificateStore) progressin.Usecase {
	return &Interactor{svc: svc, certs: certs}
}

func (i *Interactor) GetProgress(ctx context.Context) (progressdto.ProgressOutput, error) {
	state, err := i.svc.Get(ctx)
	if err != nil {
		return progressdto.ProgressOutput{}, err
	}
	return i.output(state), nil
}

func (i *Interactor) CompleteChapter(ctx context.Context, input progressdto.CompleteChapterInput) (progressdto.ProgressOutput, error) {
	state, err := i.svc.CompleteChapter(ctx, input.Ordinal)
	if err != nil {
		return progressdto.ProgressOutput{}, err
	}
	return i.output(state), nil
}

func (i *Interactor) IsUnlocked(ctx context.Context, ordinal int) (bool, error) {
	return i.svc.IsUnlocked(ctx, ordinal)
}

func (i *Interactor) SetDisplayName(ctx context.Context, input progressdto.SetDisplayNameInput) (progressdto.ProgressOutput, error) {
	state, err := i.svc.SetDisplayName(ctx, input.Name)
	if err != nil {
		return progressdto.ProgressOutput{}, err
	}
	return i.output(state), nil
}

func (i *Interactor) RecordSlideViewed(ctx context.Context, input progressdto.SlideViewedInput) error {
	return i.svc.RecordSlideViewed(ctx, input.ChapterID, input.SlideID)
}

func (i *Interactor) Reset(ctx context.Context) error {
	return i.svc.Reset(ctx)
}

func (i *Interactor) Certificate(ctx context.Context, input progressdto.CertificateInput) (progressdto.CertificateOutput, error) {
	state, err := i.svc.Get(ctx)
	if err != nil {
		return progressdto.CertificateOutput{}, err
	}
	cert, ok := domain.NewCertificate(state)
	if !ok {
		return progressdto.CertificateOutput{}, apperrors.ErrNotCertified
	}
	out := progressdto.CertificateOutput{
		ID:          cert.ID,
		Name:        cert.Name,
		CertifiedAt: cert.CertifiedAt,
		Badges:      cert.Badges,
		Text:        certificateText(cert),
	}
	if input.Write {
		if i.certs == nil {
			return progressdto.CertificateOutput{}, fmt.Errorf("certificate store is not configured")
		}
		path, err := i.certs.Save(ctx, cert)
		if err != nil {
			return progressdto.CertificateOutput{}, err
		}
		out.Path = path
	}
	return out, nil
}

func (i *Interactor) GameAccess(ctx context.Context) (progressdto.GameAccessOutput, error) {
	state, err := i.svc.Get(ctx)
	if err != nil {
		return progressdto.GameAccessOutput{}, err
	}
	course := i.svc.Course()
	completed := 0
	for _, n := range state.CompletedChapters {
		if course.Contains(n) {
			completed++
		}
	}
	return progressdto.GameAccessOutput{
		Unlocked:  state.GameUnlocked,
		Percent:   state.TotalProgress,
		Completed: completed,
		Total:     course.Total(),
	}, nil
}

func (i *Interactor) output(state domain.State) progressdto.ProgressOutput {
	lastViewed := make(map[string]string, len(state.LastSlideViewed))
	for k, v := range state.LastSlideViewed {
		lastViewed[k] = v
	}
	return progressdto.ProgressOutput{
		CurrentChapter:    state.CurrentChapter,
		CompletedChapters: append([]int(nil), state.CompletedChapters...),
		UnlockedChapters:  state.UnlockedOrdinals(i.svc.Course()),
		LastSlideViewed:   lastViewed,
		TotalProgress:     state.TotalProgress,
		Badges:            append([]string(nil), state.Badges...),
		IsCertified:       state.IsCertified,
		CertifiedAt:       state.CertificationDate,
		GameUnlocked:      state.GameUnlocked,
		UserName:          state.UserName,
	}
}

func certificateText(cert domain.Certificate) string {
	var b strings.Builder
	b.WriteString("Certificate of Completion\n\n")
	fmt.Fprintf(&b, "This certifies that %s\n", cert.Name)
	b.WriteString("has completed every chapter of the story.\n\n")
	fmt.Fprintf(&b, "Date: %s\n", cert.CertifiedAt.Format("January 2, 2006"))
	fmt.Fprintf(&b, "Certificate ID: %s\n", cert.ID)
	return b.String()
}
