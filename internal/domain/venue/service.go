package venue

import (
	"context"
	"mime/multipart"

	"venuebook/internal/storage"
)

// Uploads carries the optional files of a venue form.
type Uploads struct {
	Photo     *multipart.FileHeader
	FloorPlan *multipart.FileHeader
}

// FileError tells which form field a rejected upload came from.
type FileError struct {
	Field string
	Err   error
}

func (e *FileError) Error() string { return e.Field + ": " + e.Err.Error() }
func (e *FileError) Unwrap() error { return e.Err }

type Service struct {
	repo  Repository
	files storage.Storage
}

func NewService(repo Repository, files storage.Storage) *Service {
	return &Service{repo: repo, files: files}
}

func (s *Service) URL(path string) string {
	return s.files.URL(path)
}

func (s *Service) List(ctx context.Context) ([]Venue, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Venue, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores the uploaded files, then the venue. Files written for a venue
// that could not be saved are removed again.
func (s *Service) Create(ctx context.Context, req *VenueRequest, up Uploads) (*Venue, error) {
	v := &Venue{}
	req.apply(v)

	saved, err := s.saveUploads(ctx, v, up)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, v); err != nil {
		s.remove(saved...)
		return nil, err
	}
	return v, nil
}

// Update replaces the venue fields. A new photo or floor plan replaces the
// stored one, which is deleted once the update went through.
func (s *Service) Update(ctx context.Context, id int64, req *VenueRequest, up Uploads) (*Venue, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldPhoto, oldPlan := v.Photo, v.FloorPlan

	req.apply(v)
	saved, err := s.saveUploads(ctx, v, up)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, v); err != nil {
		s.remove(saved...)
		return nil, err
	}

	if up.Photo != nil && oldPhoto != "" {
		s.remove(oldPhoto)
	}
	if up.FloorPlan != nil && oldPlan != "" {
		s.remove(oldPlan)
	}
	return v, nil
}

// Delete soft-deletes the venue and removes its files.
func (s *Service) Delete(ctx context.Context, id int64) error {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.remove(v.Photo, v.FloorPlan)
	return nil
}

func (s *Service) saveUploads(ctx context.Context, v *Venue, up Uploads) ([]string, error) {
	var saved []string
	if up.Photo != nil {
		p, err := s.files.Save(ctx, PhotoDir, up.Photo)
		if err != nil {
			return nil, &FileError{Field: "photo", Err: err}
		}
		saved = append(saved, p)
		v.Photo = p
	}
	if up.FloorPlan != nil {
		p, err := s.files.Save(ctx, FloorPlanDir, up.FloorPlan)
		if err != nil {
			s.remove(saved...)
			return nil, &FileError{Field: "floor_plan", Err: err}
		}
		saved = append(saved, p)
		v.FloorPlan = p
	}
	return saved, nil
}

func (s *Service) remove(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		// file may already be gone
		_ = s.files.Delete(p)
	}
}
