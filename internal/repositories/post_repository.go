package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"community-service/internal/models"
)

var ErrPostNotFound = errors.New("post not found")

// PostRepository abstracts post and comment persistence.
type PostRepository interface {
	CreatePost(ctx context.Context, post models.NewPost) (models.Post, error)
	GetPost(ctx context.Context, postID int) (models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListPostsByUser(ctx context.Context, userID int) ([]models.Post, error)
	UpdatePost(ctx context.Context, postID int, update models.PostUpdate) (models.Post, error)
	DeletePost(ctx context.Context, postID int) error
	AddComment(ctx context.Context, postID, userID int, text string) (models.Post, error)
}

const postColumns = `p.id, p.user_id, u.name AS author_name, u.profile AS author_avatar, p.description, p.image,
    p.location, p.latitude, p.longitude, p.is_map_visible, p.priority, p.created_at`

// PostRepo is a sqlx implementation of PostRepository.
type PostRepo struct {
	db *sqlx.DB
}

// NewPostRepo constructs a PostRepo.
func NewPostRepo(db *sqlx.DB) *PostRepo {
	return &PostRepo{db: db}
}

// CreatePost inserts a post. Coordinates are dropped unless the author
// opted into map visibility.
func (r *PostRepo) CreatePost(ctx context.Context, post models.NewPost) (models.Post, error) {
	lat, lng := post.Latitude, post.Longitude
	if !post.IsMapVisible {
		lat, lng = nil, nil
	}

	var postID int
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO posts (user_id, description, image, location, latitude, longitude, is_map_visible, priority)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		post.UserID, post.Description, post.Image, post.Location, lat, lng, post.IsMapVisible, post.Priority).
		Scan(&postID)
	if err != nil {
		return models.Post{}, err
	}
	return r.GetPost(ctx, postID)
}

// GetPost fetches a post with its comments.
func (r *PostRepo) GetPost(ctx context.Context, postID int) (models.Post, error) {
	var post models.Post
	err := r.db.GetContext(ctx, &post,
		`SELECT `+postColumns+` FROM posts p INNER JOIN users u ON u.id = p.user_id WHERE p.id=$1`, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, ErrPostNotFound
	}
	if err != nil {
		return models.Post{}, err
	}

	posts, err := r.attachComments(ctx, []models.Post{post})
	if err != nil {
		return models.Post{}, err
	}
	return posts[0], nil
}

// ListPosts returns all posts with comments, newest first.
func (r *PostRepo) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.SelectContext(ctx, &posts,
		`SELECT `+postColumns+` FROM posts p INNER JOIN users u ON u.id = p.user_id ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	return r.attachComments(ctx, posts)
}

// ListPostsByUser returns the user's posts with comments, newest first.
func (r *PostRepo) ListPostsByUser(ctx context.Context, userID int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.SelectContext(ctx, &posts,
		`SELECT `+postColumns+` FROM posts p INNER JOIN users u ON u.id = p.user_id WHERE p.user_id=$1 ORDER BY p.created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	return r.attachComments(ctx, posts)
}

// UpdatePost applies the provided fields to a post.
func (r *PostRepo) UpdatePost(ctx context.Context, postID int, update models.PostUpdate) (models.Post, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE posts SET
            description = COALESCE($2, description),
            location    = COALESCE($3, location),
            image       = COALESCE($4, image),
            priority    = COALESCE($5, priority)
         WHERE id=$1`,
		postID, update.Description, update.Location, update.Image, update.Priority)
	if err != nil {
		return models.Post{}, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return models.Post{}, err
	}
	if count == 0 {
		return models.Post{}, ErrPostNotFound
	}
	return r.GetPost(ctx, postID)
}

// DeletePost removes a post and its comments.
func (r *PostRepo) DeletePost(ctx context.Context, postID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id=$1`, postID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrPostNotFound
	}
	return nil
}

// AddComment appends a comment and returns the updated post.
func (r *PostRepo) AddComment(ctx context.Context, postID, userID int, text string) (models.Post, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO post_comments (post_id, user_id, text) VALUES ($1, $2, $3)`, postID, userID, text)
	if err != nil {
		return models.Post{}, err
	}
	return r.GetPost(ctx, postID)
}

func (r *PostRepo) attachComments(ctx context.Context, posts []models.Post) ([]models.Post, error) {
	if len(posts) == 0 {
		return posts, nil
	}

	postIDs := make([]int64, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, int64(p.ID))
	}

	var comments []models.PostComment
	err := r.db.SelectContext(ctx, &comments,
		`SELECT pc.id, pc.post_id, pc.user_id, u.name AS author_name, pc.text, pc.created_at
         FROM post_comments pc INNER JOIN users u ON u.id = pc.user_id
         WHERE pc.post_id = ANY($1) ORDER BY pc.created_at ASC`,
		pq.Array(postIDs))
	if err != nil {
		return nil, err
	}

	byPost := map[int][]models.PostComment{}
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}
	for i := range posts {
		posts[i].Comments = byPost[posts[i].ID]
	}
	return posts, nil
}
