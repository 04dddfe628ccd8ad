package venue

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"venuebook/internal/storage"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, v *Venue) error {
	args := m.Called(ctx, v)
	if args.Error(0) == nil {
		v.ID = 1
	}
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, v *Venue) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Venue), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]Venue, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Venue), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, dir string, file *multipart.FileHeader) (string, error) {
	args := m.Called(ctx, dir, file)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Delete(relPath string) error {
	return m.Called(relPath).Error(0)
}

func (m *MockStorage) URL(relPath string) string {
	return "/static/" + relPath
}

func TestService_CreateStoresFiles(t *testing.T) {
	repo := new(MockRepository)
	files := new(MockStorage)
	svc := NewService(repo, files)

	photo := &multipart.FileHeader{Filename: "a.png", Size: 10}
	plan := &multipart.FileHeader{Filename: "b.png", Size: 10}
	files.On("Save", mock.Anything, PhotoDir, photo).Return("venues/photo/p.png", nil)
	files.On("Save", mock.Anything, FloorPlanDir, plan).Return("venues/floor_plan/f.png", nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(v *Venue) bool {
		return v.Name == "Hall A" && v.Photo == "venues/photo/p.png" && v.FloorPlan == "venues/floor_plan/f.png"
	})).Return(nil)

	v, err := svc.Create(context.Background(), &VenueRequest{Name: "Hall A"}, Uploads{Photo: photo, FloorPlan: plan})
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.ID)

	repo.AssertExpectations(t)
	files.AssertExpectations(t)
}

func TestService_CreateRemovesFilesWhenInsertFails(t *testing.T) {
	repo := new(MockRepository)
	files := new(MockStorage)
	svc := NewService(repo, files)

	photo := &multipart.FileHeader{Filename: "a.png", Size: 10}
	files.On("Save", mock.Anything, PhotoDir, photo).Return("venues/photo/p.png", nil)
	files.On("Delete", "venues/photo/p.png").Return(nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(ErrVenueNameTaken)

	_, err := svc.Create(context.Background(), &VenueRequest{Name: "Hall A"}, Uploads{Photo: photo})
	assert.ErrorIs(t, err, ErrVenueNameTaken)
	files.AssertExpectations(t)
}

func TestService_CreateRejectedFloorPlanCleansPhoto(t *testing.T) {
	repo := new(MockRepository)
	files := new(MockStorage)
	svc := NewService(repo, files)

	photo := &multipart.FileHeader{Filename: "a.png", Size: 10}
	plan := &multipart.FileHeader{Filename: "b.txt", Size: 10}
	files.On("Save", mock.Anything, PhotoDir, photo).Return("venues/photo/p.png", nil)
	files.On("Save", mock.Anything, FloorPlanDir, plan).Return("", storage.ErrInvalidMimeType)
	files.On("Delete", "venues/photo/p.png").Return(nil)

	_, err := svc.Create(context.Background(), &VenueRequest{Name: "Hall A"}, Uploads{Photo: photo, FloorPlan: plan})

	var fileErr *FileError
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, "floor_plan", fileErr.Field)
	assert.ErrorIs(t, err, storage.ErrInvalidMimeType)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	files.AssertExpectations(t)
}

func TestService_UpdateReplacesPhotoOnly(t *testing.T) {
	repo := new(MockRepository)
	files := new(MockStorage)
	svc := NewService(repo, files)

	existing := &Venue{ID: 3, Name: "Old", Photo: "venues/photo/old.png", FloorPlan: "venues/floor_plan/keep.png"}
	photo := &multipart.FileHeader{Filename: "new.png", Size: 10}

	repo.On("GetByID", mock.Anything, int64(3)).Return(existing, nil)
	files.On("Save", mock.Anything, PhotoDir, photo).Return("venues/photo/new.png", nil)
	repo.On("Update", mock.Anything, existing).Return(nil)
	files.On("Delete", "venues/photo/old.png").Return(nil)

	v, err := svc.Update(context.Background(), 3, &VenueRequest{Name: "New"}, Uploads{Photo: photo})
	require.NoError(t, err)
	assert.Equal(t, "New", v.Name)
	assert.Equal(t, "venues/photo/new.png", v.Photo)
	assert.Equal(t, "venues/floor_plan/keep.png", v.FloorPlan)

	files.AssertExpectations(t)
	files.AssertNotCalled(t, "Delete", "venues/floor_plan/keep.png")
}

func TestService_DeleteRemovesFiles(t *testing.T) {
	repo := new(MockRepository)
	files := new(MockStorage)
	svc := NewService(repo, files)

	repo.On("GetByID", mock.Anything, int64(4)).Return(&Venue{ID: 4, Photo: "venues/photo/x.png"}, nil)
	repo.On("Delete", mock.Anything, int64(4)).Return(nil)
	files.On("Delete", "venues/photo/x.png").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), 4))
	files.AssertExpectations(t)
}

func TestService_DeleteMissing(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockStorage))
	repo.On("GetByID", mock.Anything, int64(9)).Return(nil, ErrVenueNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), 9), ErrVenueNotFound)
}
