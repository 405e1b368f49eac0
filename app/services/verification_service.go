package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/eburutu/mart/app/models"
	"github.com/eburutu/mart/app/repositories"
	"github.com/eburutu/mart/app/verification"
	"github.com/eburutu/mart/pkg/apperror"
	"github.com/eburutu/mart/pkg/event"
	"github.com/eburutu/mart/pkg/metrics"
)

// VerificationView is a seller profile as the admin review queue shows it.
type VerificationView struct {
	models.SellerProfile
	User *models.UserSummary `json:"user"`
}

func newVerificationView(p *models.SellerProfile) *VerificationView {
	return &VerificationView{SellerProfile: *p, User: p.User.Summary()}
}

type TransitionInput struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes"`
}

// VerificationService moves seller applications through the verification
// workflow on behalf of admins.
type VerificationService struct {
	db      *gorm.DB
	sellers *repositories.SellerProfileRepository
	users   *repositories.UserRepository
	events  *event.Bus
	now     func() time.Time
}

func NewVerificationService(db *gorm.DB, repos *repositories.Repositories, events *event.Bus) *VerificationService {
	return &VerificationService{
		db:      db,
		sellers: repos.Sellers,
		users:   repos.Users,
		events:  events,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// List returns applications newest first. status may be empty.
func (s *VerificationService) List(ctx context.Context, status string) ([]VerificationView, error) {
	var filter verification.Status
	if strings.TrimSpace(status) != "" {
		st, err := verification.Parse(status)
		if err != nil {
			return nil, apperror.Invalid("Invalid verification status", map[string]string{"status": "The selected status is invalid."})
		}
		filter = st
	}

	profiles, err := s.sellers.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	views := make([]VerificationView, 0, len(profiles))
	for i := range profiles {
		views = append(views, *newVerificationView(&profiles[i]))
	}
	return views, nil
}

func (s *VerificationService) Get(ctx context.Context, id string) (*VerificationView, error) {
	p, err := s.sellers.FindByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperror.NotFound("Verification not found")
		}
		return nil, apperror.Internal(err)
	}
	return newVerificationView(p), nil
}

// Transition applies an admin decision. Moving to VERIFIED also promotes the
// user to SELLER (admins keep their role) in the same transaction; moving to
// REJECTED needs notes. Re-applying the current status only updates notes.
func (s *VerificationService) Transition(ctx context.Context, adminID, id string, in TransitionInput) (*VerificationView, error) {
	to, err := verification.Parse(in.Status)
	if err != nil {
		return nil, apperror.Invalid("Invalid verification status", map[string]string{"status": "The selected status is invalid."})
	}
	notes := ""
	if in.Notes != nil {
		notes = strings.TrimSpace(*in.Notes)
	}

	var (
		profile *models.SellerProfile
		from    verification.Status
		noop    bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sellers := s.sellers.WithTx(tx)

		p, err := sellers.FindByID(ctx, id)
		if err != nil {
			if repositories.IsNotFound(err) {
				return apperror.NotFound("Verification not found")
			}
			return err
		}
		from = p.VerificationStatus

		noop, err = verification.Check(from, to, notes)
		if err != nil {
			return apperror.Invalid(transitionMessage(err), map[string]string{"status": transitionMessage(err)})
		}

		if notes != "" {
			p.VerificationNotes = &notes
		}
		if !noop {
			s.apply(p, to, adminID)
		}
		if err := sellers.Save(ctx, p); err != nil {
			return err
		}

		if to == verification.Verified && p.User != nil &&
			p.User.Role != models.RoleSeller && p.User.Role != models.RoleAdmin {
			if err := s.users.WithTx(tx).UpdateRole(ctx, p.UserID, models.RoleSeller); err != nil {
				return err
			}
			p.User.Role = models.RoleSeller
		}

		profile = p
		return nil
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.Internal(err)
	}

	if !noop {
		metrics.VerificationTransitions.WithLabelValues(string(to)).Inc()
		s.events.Fire(ctx, EventVerificationChanged, s.notice(profile, from, to, notes, adminID))
	}
	return newVerificationView(profile), nil
}

// apply stamps the timestamps and review fields of the new state.
func (s *VerificationService) apply(p *models.SellerProfile, to verification.Status, adminID string) {
	now := s.now()
	p.VerificationStatus = to

	switch to {
	case verification.InReview:
		p.ReviewedAt = &now
	case verification.Verified:
		p.VerifiedAt = &now
		p.ReviewedAt = &now
		p.AdminApproved = true
		p.ReviewedByID = &adminID
	case verification.Rejected:
		p.RejectedAt = &now
		p.ReviewedAt = &now
		p.AdminApproved = false
		p.ReviewedByID = &adminID
	}
}

func (s *VerificationService) notice(p *models.SellerProfile, from, to verification.Status, notes, adminID string) VerificationNotice {
	n := VerificationNotice{
		ProfileID:  p.ID,
		UserID:     p.UserID,
		From:       from,
		To:         to,
		Notes:      notes,
		ReviewedBy: adminID,
		At:         s.now(),
	}
	if p.User != nil {
		n.Email = p.User.Email
		n.Name = p.User.Name
	}
	return n
}

func transitionMessage(err error) string {
	switch {
	case errors.Is(err, verification.ErrNotesRequired):
		return "Notes are required when rejecting a verification"
	case errors.Is(err, verification.ErrIllegalTransition):
		return "Invalid status transition"
	default:
		return "Invalid verification status"
	}
}
