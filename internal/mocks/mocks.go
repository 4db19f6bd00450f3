package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"community-service/internal/models"
	"community-service/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, name, email, passwordHash, role string) (models.User, error) {
	args := m.Called(ctx, name, email, passwordHash, role)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) ListAll(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	args := m.Called(ctx, role)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) ListResidentsExcept(ctx context.Context, userID int) ([]models.User, error) {
	args := m.Called(ctx, userID)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) ListPending(ctx context.Context, role string) ([]models.User, error) {
	args := m.Called(ctx, role)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) SetVerified(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) DeleteUser(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepositoryMock) ListEmails(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	var emails []string
	if val := args.Get(0); val != nil {
		emails = val.([]string)
	}
	return emails, args.Error(1)
}

type WorkerRepositoryMock struct {
	mock.Mock
}

func (m *WorkerRepositoryMock) ListWorkers(ctx context.Context) ([]models.Worker, error) {
	args := m.Called(ctx)
	var workers []models.Worker
	if val := args.Get(0); val != nil {
		workers = val.([]models.Worker)
	}
	return workers, args.Error(1)
}

func (m *WorkerRepositoryMock) UpdateProfile(ctx context.Context, workerID int, update models.WorkerProfileUpdate) (models.User, error) {
	args := m.Called(ctx, workerID, update)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *WorkerRepositoryMock) ListServices(ctx context.Context, workerID int) ([]models.WorkerService, error) {
	args := m.Called(ctx, workerID)
	var services []models.WorkerService
	if val := args.Get(0); val != nil {
		services = val.([]models.WorkerService)
	}
	return services, args.Error(1)
}

func (m *WorkerRepositoryMock) AddService(ctx context.Context, workerID int, name string, price float64, availableTimes string) ([]models.WorkerService, error) {
	args := m.Called(ctx, workerID, name, price, availableTimes)
	var services []models.WorkerService
	if val := args.Get(0); val != nil {
		services = val.([]models.WorkerService)
	}
	return services, args.Error(1)
}

func (m *WorkerRepositoryMock) RemoveService(ctx context.Context, workerID, serviceID int) ([]models.WorkerService, error) {
	args := m.Called(ctx, workerID, serviceID)
	var services []models.WorkerService
	if val := args.Get(0); val != nil {
		services = val.([]models.WorkerService)
	}
	return services, args.Error(1)
}

func (m *WorkerRepositoryMock) AddRating(ctx context.Context, workerID, residentID, rating int, review string) ([]models.WorkerRating, error) {
	args := m.Called(ctx, workerID, residentID, rating, review)
	var ratings []models.WorkerRating
	if val := args.Get(0); val != nil {
		ratings = val.([]models.WorkerRating)
	}
	return ratings, args.Error(1)
}

func (m *WorkerRepositoryMock) ListRatings(ctx context.Context, workerID int) ([]models.WorkerRating, error) {
	args := m.Called(ctx, workerID)
	var ratings []models.WorkerRating
	if val := args.Get(0); val != nil {
		ratings = val.([]models.WorkerRating)
	}
	return ratings, args.Error(1)
}

type BookingRepositoryMock struct {
	mock.Mock
}

func (m *BookingRepositoryMock) CreateBooking(ctx context.Context, residentID, workerID int, service string, date time.Time, timeSlot string, isEmergency bool) (models.Booking, error) {
	args := m.Called(ctx, residentID, workerID, service, date, timeSlot, isEmergency)
	var booking models.Booking
	if val := args.Get(0); val != nil {
		booking = val.(models.Booking)
	}
	return booking, args.Error(1)
}

func (m *BookingRepositoryMock) GetBooking(ctx context.Context, bookingID int) (models.Booking, error) {
	args := m.Called(ctx, bookingID)
	var booking models.Booking
	if val := args.Get(0); val != nil {
		booking = val.(models.Booking)
	}
	return booking, args.Error(1)
}

func (m *BookingRepositoryMock) ListForWorker(ctx context.Context, workerID int) ([]models.BookingSummary, error) {
	args := m.Called(ctx, workerID)
	var bookings []models.BookingSummary
	if val := args.Get(0); val != nil {
		bookings = val.([]models.BookingSummary)
	}
	return bookings, args.Error(1)
}

func (m *BookingRepositoryMock) ListForResident(ctx context.Context, residentID int) ([]models.BookingSummary, error) {
	args := m.Called(ctx, residentID)
	var bookings []models.BookingSummary
	if val := args.Get(0); val != nil {
		bookings = val.([]models.BookingSummary)
	}
	return bookings, args.Error(1)
}

func (m *BookingRepositoryMock) UpdateStatus(ctx context.Context, bookingID int, status string) (models.Booking, error) {
	args := m.Called(ctx, bookingID, status)
	var booking models.Booking
	if val := args.Get(0); val != nil {
		booking = val.(models.Booking)
	}
	return booking, args.Error(1)
}

type PostRepositoryMock struct {
	mock.Mock
}

func (m *PostRepositoryMock) CreatePost(ctx context.Context, post models.NewPost) (models.Post, error) {
	args := m.Called(ctx, post)
	var created models.Post
	if val := args.Get(0); val != nil {
		created = val.(models.Post)
	}
	return created, args.Error(1)
}

func (m *PostRepositoryMock) GetPost(ctx context.Context, postID int) (models.Post, error) {
	args := m.Called(ctx, postID)
	var post models.Post
	if val := args.Get(0); val != nil {
		post = val.(models.Post)
	}
	return post, args.Error(1)
}

func (m *PostRepositoryMock) ListPosts(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	var posts []models.Post
	if val := args.Get(0); val != nil {
		posts = val.([]models.Post)
	}
	return posts, args.Error(1)
}

func (m *PostRepositoryMock) ListPostsByUser(ctx context.Context, userID int) ([]models.Post, error) {
	args := m.Called(ctx, userID)
	var posts []models.Post
	if val := args.Get(0); val != nil {
		posts = val.([]models.Post)
	}
	return posts, args.Error(1)
}

func (m *PostRepositoryMock) UpdatePost(ctx context.Context, postID int, update models.PostUpdate) (models.Post, error) {
	args := m.Called(ctx, postID, update)
	var post models.Post
	if val := args.Get(0); val != nil {
		post = val.(models.Post)
	}
	return post, args.Error(1)
}

func (m *PostRepositoryMock) DeletePost(ctx context.Context, postID int) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *PostRepositoryMock) AddComment(ctx context.Context, postID, userID int, text string) (models.Post, error) {
	args := m.Called(ctx, postID, userID, text)
	var post models.Post
	if val := args.Get(0); val != nil {
		post = val.(models.Post)
	}
	return post, args.Error(1)
}

type CommunityRepositoryMock struct {
	mock.Mock
}

func (m *CommunityRepositoryMock) CreateCommunity(ctx context.Context, adminID int, name, description string) (models.Community, error) {
	args := m.Called(ctx, adminID, name, description)
	var community models.Community
	if val := args.Get(0); val != nil {
		community = val.(models.Community)
	}
	return community, args.Error(1)
}

func (m *CommunityRepositoryMock) GetCommunity(ctx context.Context, communityID int) (models.Community, error) {
	args := m.Called(ctx, communityID)
	var community models.Community
	if val := args.Get(0); val != nil {
		community = val.(models.Community)
	}
	return community, args.Error(1)
}

func (m *CommunityRepositoryMock) AddMembers(ctx context.Context, communityID int, userIDs []int) error {
	args := m.Called(ctx, communityID, userIDs)
	return args.Error(0)
}

func (m *CommunityRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.Community, error) {
	args := m.Called(ctx, userID)
	var communities []models.Community
	if val := args.Get(0); val != nil {
		communities = val.([]models.Community)
	}
	return communities, args.Error(1)
}

func (m *CommunityRepositoryMock) ListAll(ctx context.Context) ([]models.Community, error) {
	args := m.Called(ctx)
	var communities []models.Community
	if val := args.Get(0); val != nil {
		communities = val.([]models.Community)
	}
	return communities, args.Error(1)
}

func (m *CommunityRepositoryMock) IsMember(ctx context.Context, communityID, userID int) (bool, error) {
	args := m.Called(ctx, communityID, userID)
	return args.Bool(0), args.Error(1)
}

type EventRepositoryMock struct {
	mock.Mock
}

func (m *EventRepositoryMock) CreateEvent(ctx context.Context, adminID int, name, description string) (models.Event, error) {
	args := m.Called(ctx, adminID, name, description)
	var event models.Event
	if val := args.Get(0); val != nil {
		event = val.(models.Event)
	}
	return event, args.Error(1)
}

func (m *EventRepositoryMock) GetEvent(ctx context.Context, eventID int) (models.Event, error) {
	args := m.Called(ctx, eventID)
	var event models.Event
	if val := args.Get(0); val != nil {
		event = val.(models.Event)
	}
	return event, args.Error(1)
}

func (m *EventRepositoryMock) ListEvents(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	var events []models.Event
	if val := args.Get(0); val != nil {
		events = val.([]models.Event)
	}
	return events, args.Error(1)
}

func (m *EventRepositoryMock) SetAttendance(ctx context.Context, eventID, userID int, attending bool) error {
	args := m.Called(ctx, eventID, userID, attending)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateDirectMessage(ctx context.Context, senderID, receiverID int, body string) (models.DirectMessage, error) {
	args := m.Called(ctx, senderID, receiverID, body)
	var msg models.DirectMessage
	if val := args.Get(0); val != nil {
		msg = val.(models.DirectMessage)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) History(ctx context.Context, userID, otherUserID int) ([]models.DirectMessage, error) {
	args := m.Called(ctx, userID, otherUserID)
	var msgs []models.DirectMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.DirectMessage)
	}
	return msgs, args.Error(1)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.WorkerRepository = (*WorkerRepositoryMock)(nil)
var _ repositories.BookingRepository = (*BookingRepositoryMock)(nil)
var _ repositories.PostRepository = (*PostRepositoryMock)(nil)
var _ repositories.CommunityRepository = (*CommunityRepositoryMock)(nil)
var _ repositories.EventRepository = (*EventRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
