package token

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizhub/quizhub/app/models"
)

const testSigningKey = "test-signing-key"

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uint]*models.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) Create(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = uint(len(f.users) + 1)
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) CreateWithLink(user *models.User, provider string, emailVerified bool) error {
	return f.Create(user)
}

func (f *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == models.NormalizeEmail(email) {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) IsEmailTaken(email string) (bool, error) {
	user, _ := f.GetByEmail(email)
	return user != nil, nil
}

func (f *fakeUserRepo) IsUsernameTaken(username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Username == models.NormalizeUsername(username) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) SetEmailVerified(user *models.User) error {
	now := time.Now()
	user.EmailVerifiedAt = &now
	return nil
}

// fakeRefreshRepo mimics the user_id unique constraint: upserting for a
// user replaces that user's previous token.
type fakeRefreshRepo struct {
	mu      sync.Mutex
	byToken map[string]*models.RefreshToken
	byUser  map[uint]string
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{
		byToken: make(map[string]*models.RefreshToken),
		byUser:  make(map[uint]string),
	}
}

func (f *fakeRefreshRepo) FindByToken(value string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byToken[value], nil
}

func (f *fakeRefreshRepo) Upsert(userID uint, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if previous, ok := f.byUser[userID]; ok {
		delete(f.byToken, previous)
	}
	f.byUser[userID] = value
	f.byToken[value] = &models.RefreshToken{Token: value, UserID: userID, CreatedAt: time.Now()}
	return nil
}

func (f *fakeRefreshRepo) tokenCountForUser(userID uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, record := range f.byToken {
		if record.UserID == userID {
			count++
		}
	}
	return count
}

func newTestService(t *testing.T, users *fakeUserRepo, refresh *fakeRefreshRepo) *Service {
	t.Helper()
	t.Setenv(SigningKeyEnv, testSigningKey)
	service, err := NewService(users, refresh)
	require.NoError(t, err)
	return service
}

func testUser() *models.User {
	return &models.User{ID: 42, Email: "user@example.com", Username: "someuser"}
}

func TestNewServiceMissingKey(t *testing.T) {
	t.Setenv(SigningKeyEnv, "")

	_, err := NewService(newFakeUserRepo(), newFakeRefreshRepo())
	assert.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	user := testUser()
	service := newTestService(t, newFakeUserRepo(user), newFakeRefreshRepo())

	data, err := service.Issue(user)
	require.NoError(t, err)

	assert.Len(t, data.RefreshToken, RefreshTokenLength)
	assert.InDelta(t, time.Now().Add(AccessTokenExpiry).Unix(), data.Expiry, 5)

	claims, err := service.Verify(data.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, data.Expiry, claims.ExpiresAt.Unix())
}

func TestVerifyGarbage(t *testing.T) {
	service := newTestService(t, newFakeUserRepo(), newFakeRefreshRepo())

	_, err := service.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongKey(t *testing.T) {
	service := newTestService(t, newFakeUserRepo(), newFakeRefreshRepo())

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("some-other-key"))
	require.NoError(t, err)

	_, err = service.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpired(t *testing.T) {
	service := newTestService(t, newFakeUserRepo(), newFakeRefreshRepo())

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}).SignedString([]byte(testSigningKey))
	require.NoError(t, err)

	_, err = service.Verify(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRotates(t *testing.T) {
	user := testUser()
	refresh := newFakeRefreshRepo()
	service := newTestService(t, newFakeUserRepo(user), refresh)

	original, err := service.Issue(user)
	require.NoError(t, err)

	rotated, err := service.Refresh(original.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, original.RefreshToken, rotated.RefreshToken)

	// The presented token was replaced by the rotation.
	_, err = service.Refresh(original.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	claims, err := service.Verify(rotated.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRefreshUnknownToken(t *testing.T) {
	service := newTestService(t, newFakeUserRepo(), newFakeRefreshRepo())

	_, err := service.Refresh("never-issued")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshExpiredToken(t *testing.T) {
	user := testUser()
	refresh := newFakeRefreshRepo()
	service := newTestService(t, newFakeUserRepo(user), refresh)

	refresh.byToken["stale"] = &models.RefreshToken{
		Token:     "stale",
		UserID:    user.ID,
		CreatedAt: time.Now().Add(-RefreshTokenExpiry - time.Hour),
	}
	refresh.byUser[user.ID] = "stale"

	_, err := service.Refresh("stale")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshMissingUser(t *testing.T) {
	refresh := newFakeRefreshRepo()
	service := newTestService(t, newFakeUserRepo(), refresh)

	require.NoError(t, refresh.Upsert(7, "orphaned-token"))

	_, err := service.Refresh("orphaned-token")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestConcurrentRotationLastWriteWins(t *testing.T) {
	user := testUser()
	refresh := newFakeRefreshRepo()
	service := newTestService(t, newFakeUserRepo(user), refresh)

	var wg sync.WaitGroup
	results := make([]string, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data, err := service.Issue(user)
			if assert.NoError(t, err) {
				results[i] = data.RefreshToken
			}
		}(i)
	}
	wg.Wait()

	// Whatever the interleaving, only one token survives for the user.
	assert.Equal(t, 1, refresh.tokenCountForUser(user.ID))

	survivor, err := refresh.FindByToken(results[0])
	require.NoError(t, err)
	if survivor == nil {
		survivor, err = refresh.FindByToken(results[1])
		require.NoError(t, err)
	}
	require.NotNil(t, survivor)
	assert.Equal(t, user.ID, survivor.UserID)
}

func TestRandomAlphanumeric(t *testing.T) {
	value, err := randomAlphanumeric(RefreshTokenLength)
	require.NoError(t, err)

	assert.Len(t, value, RefreshTokenLength)
	for _, r := range value {
		assert.True(t, strings.ContainsRune(alphanumeric, r), "unexpected character %q", r)
	}

	other, err := randomAlphanumeric(RefreshTokenLength)
	require.NoError(t, err)
	assert.NotEqual(t, value, other)
}
