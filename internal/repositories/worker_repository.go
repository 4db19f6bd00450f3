package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"community-service/internal/models"
)

var ErrServiceNotFound = errors.New("service not found")

// WorkerRepository covers worker profiles, offered services and ratings.
type WorkerRepository interface {
	ListWorkers(ctx context.Context) ([]models.Worker, error)
	UpdateProfile(ctx context.Context, workerID int, update models.WorkerProfileUpdate) (models.User, error)
	ListServices(ctx context.Context, workerID int) ([]models.WorkerService, error)
	AddService(ctx context.Context, workerID int, name string, price float64, availableTimes string) ([]models.WorkerService, error)
	RemoveService(ctx context.Context, workerID, serviceID int) ([]models.WorkerService, error)
	AddRating(ctx context.Context, workerID, residentID, rating int, review string) ([]models.WorkerRating, error)
	ListRatings(ctx context.Context, workerID int) ([]models.WorkerRating, error)
}

// WorkerRepo is a sqlx implementation of WorkerRepository.
type WorkerRepo struct {
	db *sqlx.DB
}

// NewWorkerRepo constructs a WorkerRepo.
func NewWorkerRepo(db *sqlx.DB) *WorkerRepo {
	return &WorkerRepo{db: db}
}

// ListWorkers returns every worker with their services and ratings.
func (r *WorkerRepo) ListWorkers(ctx context.Context) ([]models.Worker, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users WHERE role=$1 ORDER BY name ASC`, models.RoleWorker)
	if err != nil {
		return nil, err
	}

	workerIDs := make([]int64, 0, len(users))
	for _, u := range users {
		workerIDs = append(workerIDs, int64(u.ID))
	}

	servicesByWorker := map[int][]models.WorkerService{}
	ratingsByWorker := map[int][]models.WorkerRating{}
	if len(workerIDs) > 0 {
		var services []models.WorkerService
		if err := r.db.SelectContext(ctx, &services,
			`SELECT id, worker_id, name, price, available_times FROM worker_services WHERE worker_id = ANY($1) ORDER BY id ASC`,
			pq.Array(workerIDs)); err != nil {
			return nil, err
		}
		for _, s := range services {
			servicesByWorker[s.WorkerID] = append(servicesByWorker[s.WorkerID], s)
		}

		var ratings []models.WorkerRating
		if err := r.db.SelectContext(ctx, &ratings,
			`SELECT wr.id, wr.worker_id, wr.resident_id, u.name AS resident_name, wr.rating, wr.review, wr.created_at
             FROM worker_ratings wr INNER JOIN users u ON u.id = wr.resident_id
             WHERE wr.worker_id = ANY($1) ORDER BY wr.created_at DESC`,
			pq.Array(workerIDs)); err != nil {
			return nil, err
		}
		for _, rt := range ratings {
			ratingsByWorker[rt.WorkerID] = append(ratingsByWorker[rt.WorkerID], rt)
		}
	}

	workers := make([]models.Worker, 0, len(users))
	for _, u := range users {
		workers = append(workers, models.Worker{
			User:     u,
			Services: servicesByWorker[u.ID],
			Ratings:  ratingsByWorker[u.ID],
		})
	}
	return workers, nil
}

// UpdateProfile applies the provided profile fields to a worker account.
func (r *WorkerRepo) UpdateProfile(ctx context.Context, workerID int, update models.WorkerProfileUpdate) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`UPDATE users SET
            phone   = COALESCE($2, phone),
            shop    = COALESCE($3, shop),
            proof   = COALESCE($4, proof),
            profile = COALESCE($5, profile)
         WHERE id=$1 RETURNING `+userColumns,
		workerID, update.Phone, update.Shop, update.Proof, update.Profile)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// ListServices returns the services a worker offers.
func (r *WorkerRepo) ListServices(ctx context.Context, workerID int) ([]models.WorkerService, error) {
	var services []models.WorkerService
	err := r.db.SelectContext(ctx, &services,
		`SELECT id, worker_id, name, price, available_times FROM worker_services WHERE worker_id=$1 ORDER BY id ASC`,
		workerID)
	return services, err
}

// AddService inserts a service and returns the updated list.
func (r *WorkerRepo) AddService(ctx context.Context, workerID int, name string, price float64, availableTimes string) ([]models.WorkerService, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO worker_services (worker_id, name, price, available_times) VALUES ($1, $2, $3, $4)`,
		workerID, name, price, availableTimes)
	if err != nil {
		return nil, err
	}
	return r.ListServices(ctx, workerID)
}

// RemoveService deletes one of the worker's services and returns the
// updated list.
func (r *WorkerRepo) RemoveService(ctx context.Context, workerID, serviceID int) ([]models.WorkerService, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM worker_services WHERE id=$1 AND worker_id=$2`, serviceID, workerID)
	if err != nil {
		return nil, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrServiceNotFound
	}
	return r.ListServices(ctx, workerID)
}

// AddRating records a resident's rating and returns the worker's ratings.
func (r *WorkerRepo) AddRating(ctx context.Context, workerID, residentID, rating int, review string) ([]models.WorkerRating, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO worker_ratings (worker_id, resident_id, rating, review) VALUES ($1, $2, $3, $4)`,
		workerID, residentID, rating, review)
	if err != nil {
		return nil, err
	}
	return r.ListRatings(ctx, workerID)
}

// ListRatings returns the ratings recorded for a worker.
func (r *WorkerRepo) ListRatings(ctx context.Context, workerID int) ([]models.WorkerRating, error) {
	var ratings []models.WorkerRating
	err := r.db.SelectContext(ctx, &ratings,
		`SELECT wr.id, wr.worker_id, wr.resident_id, u.name AS resident_name, wr.rating, wr.review, wr.created_at
         FROM worker_ratings wr INNER JOIN users u ON u.id = wr.resident_id
         WHERE wr.worker_id=$1 ORDER BY wr.created_at DESC`, workerID)
	return ratings, err
}
