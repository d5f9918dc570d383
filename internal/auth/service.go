package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"backend-tripgallery/internal/db"
)

const accessTokenTTL = 12 * time.Hour

// passwordCost is the bcrypt cost for stored admin passwords.
var passwordCost = 12

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrLastAdmin          = errors.New("cannot delete the last admin")
	ErrDeleteSelf         = errors.New("cannot delete yourself")
	ErrMissingFields      = errors.New("username, password and name are required")
	ErrStoreUnavailable   = errors.New("admin store unavailable")
)

type Service struct {
	secret []byte
	db     db.Querier
}

type Claims struct {
	AdminID  string `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewService(secret string, q db.Querier) *Service {
	return &Service{
		secret: []byte(secret),
		db:     q,
	}
}

const adminColumns = `id, username, password_hash, COALESCE(name, ''), COALESCE(email, ''), created_at, updated_at`

func scanAdmin(row pgx.Row) (Admin, error) {
	var a Admin
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Name, &a.Email, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Admin{}, ErrAdminNotFound
	}
	return a, err
}

// ready reports ErrStoreUnavailable when the API runs without Postgres.
func (s *Service) ready() error {
	if s.db == nil {
		return ErrStoreUnavailable
	}
	return nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (Admin, TokenResponse, error) {
	if err := s.ready(); err != nil {
		return Admin{}, TokenResponse{}, err
	}
	admin, err := scanAdmin(s.db.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE username = $1`, req.Username))
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return Admin{}, TokenResponse{}, ErrInvalidCredentials
		}
		return Admin{}, TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return Admin{}, TokenResponse{}, ErrInvalidCredentials
	}

	token, err := s.signToken(admin, accessTokenTTL)
	if err != nil {
		return Admin{}, TokenResponse{}, err
	}
	return admin, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(accessTokenTTL.Seconds()),
		Admin:       admin,
	}, nil
}

func (s *Service) ValidateAccessToken(token string) (*Claims, error) {
	return parseToken(s.secret, token)
}

func (s *Service) ListAdmins(ctx context.Context) ([]Admin, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, `SELECT `+adminColumns+` FROM admins ORDER BY created_at, username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := []Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

func (s *Service) GetAdmin(ctx context.Context, id string) (Admin, error) {
	if err := s.ready(); err != nil {
		return Admin{}, err
	}
	return scanAdmin(s.db.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, id))
}

func (s *Service) CreateAdmin(ctx context.Context, req CreateAdminRequest) (Admin, error) {
	if err := s.ready(); err != nil {
		return Admin{}, err
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Name = strings.TrimSpace(req.Name)
	if req.Username == "" || req.Password == "" || req.Name == "" {
		return Admin{}, ErrMissingFields
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordCost)
	if err != nil {
		return Admin{}, err
	}

	admin := Admin{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: string(hash),
		Name:         req.Name,
		Email:        strings.TrimSpace(req.Email),
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO admins (id, username, password_hash, name, email)
		VALUES ($1,$2,$3,$4,NULLIF($5,''))
		RETURNING created_at, updated_at
	`, admin.ID, admin.Username, admin.PasswordHash, admin.Name, admin.Email)
	if err := row.Scan(&admin.CreatedAt, &admin.UpdatedAt); err != nil {
		return Admin{}, mapUniqueViolation(err)
	}
	return admin, nil
}

func (s *Service) UpdateAdmin(ctx context.Context, id string, req UpdateAdminRequest) (Admin, error) {
	admin, err := s.GetAdmin(ctx, id)
	if err != nil {
		return Admin{}, err
	}
	if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
		admin.Username = strings.TrimSpace(*req.Username)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		admin.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		admin.Email = strings.TrimSpace(*req.Email)
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), passwordCost)
		if err != nil {
			return Admin{}, err
		}
		admin.PasswordHash = string(hash)
	}

	// profile and password change together or not at all
	row := s.db.QueryRow(ctx, `
		UPDATE admins SET username = $2, name = $3, email = NULLIF($4,''), password_hash = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, admin.ID, admin.Username, admin.Name, admin.Email, admin.PasswordHash)
	if err := row.Scan(&admin.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Admin{}, ErrAdminNotFound
		}
		return Admin{}, mapUniqueViolation(err)
	}
	return admin, nil
}

func (s *Service) UpdatePassword(ctx context.Context, id, password string) error {
	if password == "" {
		return ErrMissingFields
	}
	if err := s.ready(); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `UPDATE admins SET password_hash = $2, updated_at = now() WHERE id = $1`, id, string(hash))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAdminNotFound
	}
	return nil
}

// DeleteAdmin removes an admin. Nobody can delete their own account or the last one.
func (s *Service) DeleteAdmin(ctx context.Context, id, requestedBy string) error {
	if id == requestedBy {
		return ErrDeleteSelf
	}
	count, err := s.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastAdmin
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAdminNotFound
	}
	return nil
}

func (s *Service) CountAdmins(ctx context.Context) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var count int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	return count, err
}

// InitializeFirstAdmin creates the bootstrap account when the table is empty.
func (s *Service) InitializeFirstAdmin(ctx context.Context, username, password string) (bool, error) {
	count, err := s.CountAdmins(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.CreateAdmin(ctx, CreateAdminRequest{Username: username, Password: password, Name: "Administrator"}); err != nil {
		return false, err
	}
	log.Printf("created first admin %q, change its password", username)
	return true, nil
}

func (s *Service) signToken(admin Admin, ttl time.Duration) (string, error) {
	claims := Claims{
		AdminID:  admin.ID,
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func parseToken(secret []byte, token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrUsernameTaken
	}
	return err
}
