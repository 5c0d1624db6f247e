package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"user-management-api/internal/domain/entity"
	repo "user-management-api/internal/domain/repository"
	"user-management-api/pkg/helpers"
)

// Service implements the user CRUD core: id validation, existence checks,
// projection mapping, and the partial-update merge. Elasticsearch indexing is
// best-effort and disabled when ES is nil.
type Service struct {
	Repo         repo.UserRepository
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewService(repo repo.UserRepository, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string) *Service {
	return &Service{
		Repo:         repo,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
	}
}

// GetAllUsers returns the list projection of every persisted user, in
// repository order.
func (s *Service) GetAllUsers(ctx context.Context) ([]UserDto, error) {
	users, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]UserDto, 0, len(users))
	for i := range users {
		out = append(out, toUserDto(&users[i]))
	}
	return out, nil
}

// GetUserByID returns the full projection for one user. The id is validated
// before any lookup; existence is checked before the fetch.
func (s *Service) GetUserByID(ctx context.Context, id int64) (*UserAllFieldsDto, error) {
	if id <= 0 {
		return nil, &InvalidIDError{ID: id}
	}
	exists, err := s.Repo.ExistsByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("check user %d: %w", id, err)
	}
	if !exists {
		return nil, &UserNotFoundError{ID: id}
	}
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, &UserNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("fetch user %d: %w", id, err)
	}
	return toAllFieldsDto(u), nil
}

// AddUser hashes the password, persists a new user and returns the projection
// of the stored entity with its generated id.
func (s *Service) AddUser(ctx context.Context, in CreateUserInput) (*UserAllFieldsDto, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	u := &entity.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Country:   in.Country,
		Role:      role,
		Password:  hash,
	}
	if err := s.Repo.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user created")
	}
	_ = s.indexUser(ctx, u)
	return toAllFieldsDto(u), nil
}

// DeleteUser removes a user permanently. Existence is verified with a
// dedicated existence query; no entity fetch happens on this path.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return &InvalidIDError{ID: id}
	}
	exists, err := s.Repo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check user %d: %w", id, err)
	}
	if !exists {
		return &UserNotFoundError{ID: id}
	}
	if err := s.Repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", id).Info("user deleted")
	}
	_ = s.removeFromIndex(ctx, id)
	return nil
}

// UpdateUser fetches the stored entity, overwrites the fields present in the
// patch, persists the merged entity and returns its projection. It performs
// its own not-found check rather than trusting the caller.
func (s *Service) UpdateUser(ctx context.Context, id int64, patch UserPatch) (*UserAllFieldsDto, error) {
	if id <= 0 {
		return nil, &InvalidIDError{ID: id}
	}
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, &UserNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("fetch user %d: %w", id, err)
	}
	patch.Apply(u)
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, &UserNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user updated")
	}
	_ = s.indexUser(ctx, u)
	return toAllFieldsDto(u), nil
}

func (s *Service) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"firstName":  u.FirstName,
		"lastName":   u.LastName,
		"email":      u.Email,
		"country":    u.Country,
		"role":       u.Role,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: strconv.FormatInt(u.ID, 10), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

func (s *Service) removeFromIndex(ctx context.Context, id int64) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	req := esapi.DeleteRequest{Index: s.ESUsersIndex, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("es delete failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	return nil
}

// SearchUsers performs a simple multi_match search on email and names.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "firstName", "lastName"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
