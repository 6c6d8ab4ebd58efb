// Package tokenrepo authenticates bearer tokens against the access_tokens table. Only the
// sha256 of a token is stored.
package tokenrepo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccessTokenDTO struct {
	TokenHash string `gorm:"type:char(64);primaryKey"`
	ActorID   string `gorm:"type:varchar(128);not null"`
	Role      string `gorm:"type:varchar(32);not null"`
	ExpiresAt *time.Time
}

func (AccessTokenDTO) TableName() string {
	return "access_tokens"
}

// GormAuthorizer implements ports.Authorizer.
type GormAuthorizer struct {
	db    *gorm.DB
	clock clock.Clock
}

var _ ports.Authorizer = (*GormAuthorizer)(nil)

func NewGormAuthorizer(db *gorm.DB, clk clock.Clock) *GormAuthorizer {
	return &GormAuthorizer{db: db, clock: clk}
}

func hashToken(bearer string) string {
	sum := sha256.Sum256([]byte(bearer))
	return hex.EncodeToString(sum[:])
}

// Grant stores bearer for a. A zero expiresAt never expires. Granting an existing token
// replaces its actor.
func (a *GormAuthorizer) Grant(ctx context.Context, bearer string, who actor.Actor, expiresAt time.Time) error {
	if bearer == "" {
		return errs.NewValueIsRequiredError("bearerToken")
	}
	if err := who.Validate(); err != nil {
		return err
	}

	dto := AccessTokenDTO{
		TokenHash: hashToken(bearer),
		ActorID:   who.ID(),
		Role:      who.Role().String(),
	}
	if !expiresAt.IsZero() {
		t := expiresAt.UTC()
		dto.ExpiresAt = &t
	}

	return a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"actor_id", "role", "expires_at"}),
	}).Create(&dto).Error
}

// Revoke deletes bearer. Unknown tokens are ignored.
func (a *GormAuthorizer) Revoke(ctx context.Context, bearer string) error {
	return a.db.WithContext(ctx).Delete(&AccessTokenDTO{}, "token_hash = ?", hashToken(bearer)).Error
}

func (a *GormAuthorizer) Validate(ctx context.Context, bearerToken string) (actor.Actor, error) {
	if bearerToken == "" {
		return actor.Actor{}, ports.ErrUnauthenticated
	}

	var dto AccessTokenDTO
	err := a.db.WithContext(ctx).First(&dto, "token_hash = ?", hashToken(bearerToken)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return actor.Actor{}, ports.ErrUnauthenticated
	}
	if err != nil {
		return actor.Actor{}, errs.NewTransportError("authorizer", err)
	}

	if dto.ExpiresAt != nil && !a.clock.Now().Before(*dto.ExpiresAt) {
		return actor.Actor{}, ports.ErrUnauthenticated
	}

	role, err := actor.ParseRole(dto.Role)
	if err != nil {
		return actor.Actor{}, fmt.Errorf("stored role: %w", err)
	}
	return actor.NewActor(dto.ActorID, role)
}
