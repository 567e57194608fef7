package booking_test

import (
	"context"
	"errors"
	"testing"

	"ms-booking/internal/apperr"
	"ms-booking/internal/booking"
	"ms-booking/internal/booking/db"
	"ms-booking/internal/config"
	"ms-booking/internal/models"
)

// Mock implementations for testing

type MockBookingDB struct {
	bookings     map[int64]*models.Booking
	rooms        map[int64]*models.Room
	nextID       int64
	shouldFailOn string
	errorMsg     string
}

func NewMockBookingDB() *MockBookingDB {
	return &MockBookingDB{
		bookings: make(map[int64]*models.Booking),
		rooms:    make(map[int64]*models.Room),
		nextID:   1,
	}
}

func (m *MockBookingDB) GetBookingByUserID(_ context.Context, userID int64) (*models.Booking, error) {
	if m.shouldFailOn == "GetBookingByUserID" {
		return nil, errors.New(m.errorMsg)
	}
	for _, b := range m.bookings {
		if b.UserID == userID {
			return b, nil
		}
	}
	return nil, nil
}

func (m *MockBookingDB) GetBookingByID(_ context.Context, id int64) (*models.Booking, error) {
	if m.shouldFailOn == "GetBookingByID" {
		return nil, errors.New(m.errorMsg)
	}
	return m.bookings[id], nil
}

func (m *MockBookingDB) GetRoomByID(_ context.Context, id int64) (*models.Room, error) {
	if m.shouldFailOn == "GetRoomByID" {
		return nil, errors.New(m.errorMsg)
	}
	return m.rooms[id], nil
}

func (m *MockBookingDB) countForRoom(roomID, excludeBookingID int64) int {
	count := 0
	for _, b := range m.bookings {
		if b.RoomID == roomID && b.ID != excludeBookingID {
			count++
		}
	}
	return count
}

func (m *MockBookingDB) CreateBookingIfAvailable(_ context.Context, userID, roomID int64, capacity int) (*models.Booking, error) {
	if m.shouldFailOn == "CreateBookingIfAvailable" {
		return nil, errors.New(m.errorMsg)
	}
	if m.countForRoom(roomID, 0) >= capacity {
		return nil, db.ErrRoomFull
	}
	b := &models.Booking{ID: m.nextID, UserID: userID, RoomID: roomID, Room: m.rooms[roomID]}
	m.bookings[b.ID] = b
	m.nextID++
	return b, nil
}

func (m *MockBookingDB) MoveBookingIfAvailable(_ context.Context, bookingID, roomID int64, capacity int) (*models.Booking, error) {
	if m.shouldFailOn == "MoveBookingIfAvailable" {
		return nil, errors.New(m.errorMsg)
	}
	if m.countForRoom(roomID, bookingID) >= capacity {
		return nil, db.ErrRoomFull
	}
	b := m.bookings[bookingID]
	b.RoomID = roomID
	b.Room = m.rooms[roomID]
	return b, nil
}

type MockRoomLocker struct {
	lockedRooms     map[int64]string
	lockingSucceeds bool
	shouldFailOn    string
	errorMsg        string
}

func NewMockRoomLocker() *MockRoomLocker {
	return &MockRoomLocker{
		lockedRooms:     make(map[int64]string),
		lockingSucceeds: true,
	}
}

func (m *MockRoomLocker) LockRoom(_ context.Context, roomID int64, owner string) (bool, error) {
	if m.shouldFailOn == "LockRoom" {
		return false, errors.New(m.errorMsg)
	}
	if !m.lockingSucceeds {
		return false, nil
	}
	m.lockedRooms[roomID] = owner
	return true, nil
}

func (m *MockRoomLocker) UnlockRoom(_ context.Context, roomID int64, owner string) error {
	if m.shouldFailOn == "UnlockRoom" {
		return errors.New(m.errorMsg)
	}
	if m.lockedRooms[roomID] == owner {
		delete(m.lockedRooms, roomID)
	}
	return nil
}

type MockKafkaProducer struct {
	messages map[string][]string
}

func NewMockKafkaProducer() *MockKafkaProducer {
	return &MockKafkaProducer{messages: make(map[string][]string)}
}

func (m *MockKafkaProducer) Publish(topic string, _ string, value []byte) error {
	m.messages[topic] = append(m.messages[topic], string(value))
	return nil
}

type MockEligibility struct {
	err error
}

func (m *MockEligibility) Check(_ context.Context, _ int64) error {
	return m.err
}

func testTopics() config.TopicConfig {
	return config.TopicConfig{
		BookingCreated: "booking.bookings.created",
		BookingUpdated: "booking.bookings.updated",
	}
}

func setupService() (*booking.Service, *MockBookingDB, *MockRoomLocker, *MockKafkaProducer) {
	mockDB := NewMockBookingDB()
	locker := NewMockRoomLocker()
	producer := NewMockKafkaProducer()
	svc := booking.NewService(mockDB, locker, producer, &MockEligibility{}, testTopics(), nil)
	return svc, mockDB, locker, producer
}

func TestCreateBooking(t *testing.T) {
	svc, mockDB, locker, producer := setupService()
	mockDB.rooms[10] = &models.Room{ID: 10, Name: "101", Capacity: 2, HotelID: 1}

	created, err := svc.CreateBooking(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if created.UserID != 1 || created.RoomID != 10 {
		t.Errorf("Expected booking for user 1 in room 10, got user %d room %d", created.UserID, created.RoomID)
	}

	// The room lock must be released once the booking is committed.
	if len(locker.lockedRooms) != 0 {
		t.Errorf("Expected room lock to be released, %d still held", len(locker.lockedRooms))
	}

	if len(producer.messages["booking.bookings.created"]) != 1 {
		t.Errorf("Expected one booking.created event, got %d", len(producer.messages["booking.bookings.created"]))
	}
}

func TestCreateBookingIneligibleUser(t *testing.T) {
	svc, mockDB, _, _ := setupService()
	mockDB.rooms[10] = &models.Room{ID: 10, Capacity: 2}
	svc.Eligibility = &MockEligibility{err: apperr.New(apperr.PaymentRequired, "ticket has not been paid")}

	_, err := svc.CreateBooking(context.Background(), 1, 10)
	if apperr.KindOf(err) != apperr.PaymentRequired {
		t.Errorf("Expected the eligibility error to pass through, got %v", err)
	}
}

func TestCreateBookingInvalidRoomID(t *testing.T) {
	svc, _, _, _ := setupService()

	_, err := svc.CreateBooking(context.Background(), 1, 0)
	if apperr.KindOf(err) != apperr.AccessDenied {
		t.Errorf("Expected AccessDenied for invalid room id, got %v", err)
	}
}

func TestCreateBookingRoomNotFound(t *testing.T) {
	svc, _, _, _ := setupService()

	_, err := svc.CreateBooking(context.Background(), 1, 99)
	if apperr.KindOf(err) != apperr.NotFound {
		t.Errorf("Expected NotFound for missing room, got %v", err)
	}
}

func TestCreateBookingAlreadyBooked(t *testing.T) {
	svc, mockDB, _, _ := setupService()
	mockDB.rooms[10] = &models.Room{ID: 10, Capacity: 2}
	mockDB.rooms[11] = &models.Room{ID: 11, Capacity: 2}

	if _, err := svc.CreateBooking(context.Background(), 1, 10); err != nil {
		t.Fatalf("Expected first booking to succeed, got %v", err)
	}

	_, err := svc.CreateBooking(context.Background(), 1, 11)
	if apperr.KindOf(err) != apperr.Conflict {
		t.Errorf("Expected Conflict for second booking by same user, got %v", err)
	}
}

func TestCreateBookingRoomFull(t *testing.T) {
	svc, mockDB, _, _ := setupService()
	mockDB.rooms[10] = &models.Room{ID: 10, Capacity: 1}

	if _, err := svc.CreateBooking(context.Background(), 1, 10); err != nil {
		t.Fatalf("Expected first booking to succeed, got %v", err)
	}

	_, err := svc.CreateBooking(context.Background(), 2, 10)
	if apperr.KindOf(err) != apperr.AccessDenied {
		t.Errorf("Expected AccessDenied for full room, got %v", err)
	}
}

func TestCreateBookingLockContention(t *testing.T) {
	svc, mockDB, locker, _ := setupService()
	mockDB.rooms[10] = &models.Room{ID: 10, Capacity: 2}
	locker.lockingSucceeds = false

	_, err := svc.CreateBooking(context.Background(), 1, 10)
	if apperr.KindOf(err) != apperr.Conflict {
		t.Errorf("Expected Conflict when the room lock is held, got %v", err)
	}
}

func TestGetUserBooking(t *testing.T) {
	svc, mockDB, _, _ := setupService()
	mockDB.rooms[10] = &models.Room{ID: 10, Capacity: 2}
	created, err := svc.CreateBooking(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	booking, err := svc.GetUserBooking(context.Background(), 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if booking.ID != created.ID {
		t.Errorf("Expected booking %d, got %d", created.ID, booking.ID)
	}
	if booking.Room == nil || booking.Room.ID != 10 {
		t.Error("Expected booking to carry its room")
	}
}

func TestGetUserBookingNotFound(t *testing.T) {
	svc, _, _, _ := setupService()

	_, err := svc.GetUserBooking(context.Background(), 42)
	if apperr.KindOf(err) != apperr.NotFound {
		t.Errorf("Expected NotFound for user without booking, got %v", err)
	}
}

func TestUpdateBooking(t *testing.T) {
	svc, mockDB, _, producer := setupService()
	mockDB.rooms[10] = &models.Room{ID: 10, Capacity: 2}
	mockDB.rooms[11] = &models.Room{ID: 11, Capacity: 2}

	created, err := svc.CreateBooking(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, err := svc.UpdateBooking(context.Background(), 1, created.ID, 11)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Moving rooms swaps the room in place, the booking id never changes.
	if updated.ID != created.ID {
		t.Errorf("Expected booking id %d to be preserved, got %d", created.ID, updated.ID)
	}
	if updated.RoomID != 11 {
		t.Errorf("Expected booking to move to room 11, got room %d", updated.RoomID)
	}

	if len(producer.messages["booking.bookings.updated"]) != 1 {
		t.Errorf("Expected one booking.updated event, got %d", len(producer.messages["booking.bookings.updated"]))
	}
}

func TestUpdateBookingNotOwned(t *testing.T) {
	svc, mockDB, _, _ := setupService()
	mockDB.rooms[10] = &models.Room{ID: 10, Capacity: 2}
	mockDB.rooms[11] = &models.Room{ID: 11, Capacity: 2}

	created, err := svc.CreateBooking(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = svc.UpdateBooking(context.Background(), 2, created.ID, 11)
	if apperr.KindOf(err) != apperr.AccessDenied {
		t.Errorf("Expected AccessDenied for someone else's booking, got %v", err)
	}
}

func TestUpdateBookingMissingBooking(t *testing.T) {
	svc, mockDB, _, _ := setupService()
	mockDB.rooms[11] = &models.Room{ID: 11, Capacity: 2}

	// A nonexistent booking id is indistinguishable from a forbidden one.
	_, err := svc.UpdateBooking(context.Background(), 1, 999, 11)
	if apperr.KindOf(err) != apperr.AccessDenied {
		t.Errorf("Expected AccessDenied for missing booking, got %v", err)
	}
}

func TestUpdateBookingTargetRoomFull(t *testing.T) {
	svc, mockDB, _, _ := setupService()
	mockDB.rooms[10] = &models.Room{ID: 10, Capacity: 2}
	mockDB.rooms[11] = &models.Room{ID: 11, Capacity: 1}

	created, err := svc.CreateBooking(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := svc.CreateBooking(context.Background(), 2, 11); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = svc.UpdateBooking(context.Background(), 1, created.ID, 11)
	if apperr.KindOf(err) != apperr.AccessDenied {
		t.Errorf("Expected AccessDenied for full target room, got %v", err)
	}
}

func TestCreateBookingDBFailure(t *testing.T) {
	svc, mockDB, _, _ := setupService()
	mockDB.rooms[10] = &models.Room{ID: 10, Capacity: 2}
	mockDB.shouldFailOn = "CreateBookingIfAvailable"
	mockDB.errorMsg = "db error"

	if _, err := svc.CreateBooking(context.Background(), 1, 10); err == nil {
		t.Error("Expected error when DB fails, got nil")
	}
}
