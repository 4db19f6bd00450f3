package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"community-service/internal/models"
)

var ErrCommunityNotFound = errors.New("community not found")

// CommunityRepository abstracts community persistence. Community ids
// double as room ids on the real-time channel; membership answered here
// is the authorization the messaging core delegates to the REST layer.
type CommunityRepository interface {
	CreateCommunity(ctx context.Context, adminID int, name, description string) (models.Community, error)
	GetCommunity(ctx context.Context, communityID int) (models.Community, error)
	AddMembers(ctx context.Context, communityID int, userIDs []int) error
	ListForUser(ctx context.Context, userID int) ([]models.Community, error)
	ListAll(ctx context.Context) ([]models.Community, error)
	IsMember(ctx context.Context, communityID, userID int) (bool, error)
}

// CommunityRepo is a sqlx implementation of CommunityRepository.
type CommunityRepo struct {
	db *sqlx.DB
}

// NewCommunityRepo constructs a CommunityRepo.
func NewCommunityRepo(db *sqlx.DB) *CommunityRepo {
	return &CommunityRepo{db: db}
}

// CreateCommunity creates a community with its admin as first member.
func (r *CommunityRepo) CreateCommunity(ctx context.Context, adminID int, name, description string) (models.Community, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Community{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var community models.Community
	if err = tx.QueryRowxContext(ctx,
		`INSERT INTO communities (name, description, admin_id) VALUES ($1, $2, $3) RETURNING id, name, description, admin_id, created_at`,
		name, description, adminID).
		Scan(&community.ID, &community.Name, &community.Description, &community.AdminID, &community.CreatedAt); err != nil {
		return models.Community{}, err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO community_members (community_id, user_id) VALUES ($1, $2)`, community.ID, adminID); err != nil {
		return models.Community{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Community{}, err
	}
	return community, nil
}

// GetCommunity fetches a community by id.
func (r *CommunityRepo) GetCommunity(ctx context.Context, communityID int) (models.Community, error) {
	var community models.Community
	err := r.db.GetContext(ctx, &community,
		`SELECT c.id, c.name, c.description, c.admin_id, u.name AS admin_name, c.created_at
         FROM communities c INNER JOIN users u ON u.id = c.admin_id WHERE c.id=$1`, communityID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Community{}, ErrCommunityNotFound
	}
	return community, err
}

// AddMembers adds users to a community, skipping existing members.
func (r *CommunityRepo) AddMembers(ctx context.Context, communityID int, userIDs []int) error {
	for _, userID := range userIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO community_members (community_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			communityID, userID); err != nil {
			return err
		}
	}
	return nil
}

// ListForUser returns communities the user belongs to.
func (r *CommunityRepo) ListForUser(ctx context.Context, userID int) ([]models.Community, error) {
	var communities []models.Community
	err := r.db.SelectContext(ctx, &communities,
		`SELECT c.id, c.name, c.description, c.admin_id, u.name AS admin_name, c.created_at
         FROM communities c
         INNER JOIN community_members cm ON cm.community_id = c.id
         INNER JOIN users u ON u.id = c.admin_id
         WHERE cm.user_id=$1 ORDER BY c.created_at DESC`, userID)
	return communities, err
}

// ListAll returns every community.
func (r *CommunityRepo) ListAll(ctx context.Context) ([]models.Community, error) {
	var communities []models.Community
	err := r.db.SelectContext(ctx, &communities,
		`SELECT c.id, c.name, c.description, c.admin_id, u.name AS admin_name, c.created_at
         FROM communities c INNER JOIN users u ON u.id = c.admin_id ORDER BY c.created_at DESC`)
	return communities, err
}

// IsMember checks membership.
func (r *CommunityRepo) IsMember(ctx context.Context, communityID, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM community_members WHERE community_id=$1 AND user_id=$2)`, communityID, userID)
	return exists, err
}
