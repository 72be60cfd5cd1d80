package services

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"bookkeeper/internal/clock"
	apperrors "bookkeeper/internal/errors"
	"bookkeeper/internal/models"
	"bookkeeper/internal/pagination"
)

// memberService handles library members.
type memberService struct {
	db    *gorm.DB
	clock clock.Clock
}

// NewMemberService creates a new MemberServicer.
func NewMemberService(db *gorm.DB, clk clock.Clock) MemberServicer {
	return &memberService{db: db, clock: clk}
}

// CreateMember registers a member. A zero joinDate means today.
func (s *memberService) CreateMember(name, email string, joinDate time.Time) (*models.Member, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "member name and email are required")
	}
	if joinDate.IsZero() {
		joinDate = clock.Today(s.clock)
	}

	if err := s.ensureEmailFree(email, 0); err != nil {
		return nil, err
	}

	member := &models.Member{Name: name, Email: email, JoinDate: clock.Date(joinDate)}
	if err := s.db.Create(member).Error; err != nil {
		if isDuplicate(err) {
			return nil, apperrors.ErrDuplicateMember
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return member, nil
}

func (s *memberService) ensureEmailFree(email string, exceptID uint) error {
	var count int64
	if err := s.db.Model(&models.Member{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateMember
	}
	return nil
}

// GetMemberByID retrieves a member by ID.
func (s *memberService) GetMemberByID(memberID uint) (*models.Member, error) {
	var member models.Member
	if err := s.db.First(&member, memberID).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrMemberNotFound)
	}
	return &member, nil
}

// ListMembers retrieves a paginated list of members in insertion order.
func (s *memberService) ListMembers(page pagination.PageRequest) (*pagination.PageResponse[models.Member], error) {
	return listPage[models.Member](s.db.Model(&models.Member{}), page, "id ASC")
}

// UpdateMember updates a member's name and/or email.
func (s *memberService) UpdateMember(memberID uint, name, email string) (*models.Member, error) {
	member, err := s.GetMemberByID(memberID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name = strings.TrimSpace(name); name != "" {
		updates["name"] = name
	}
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" && email != member.Email {
		if err := s.ensureEmailFree(email, memberID); err != nil {
			return nil, err
		}
		updates["email"] = email
	}

	if len(updates) > 0 {
		if err := s.db.Model(member).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return member, nil
}

// GetMemberLoans retrieves a member's loans, most recent first.
func (s *memberService) GetMemberLoans(memberID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Loan], error) {
	if _, err := s.GetMemberByID(memberID); err != nil {
		return nil, err
	}
	base := s.db.Model(&models.Loan{}).Where("member_id = ?", memberID)
	return listPage[models.Loan](base, page, "loan_date DESC, id DESC", "Book")
}
