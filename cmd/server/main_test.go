package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/autotransfer/internal/adapter/http/middleware"
	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/infrastructure/auth"
	"github.com/iho/autotransfer/internal/infrastructure/config"
	"github.com/iho/autotransfer/internal/infrastructure/eventpublisher"
	"github.com/iho/autotransfer/internal/infrastructure/idgen"
	"github.com/iho/autotransfer/internal/infrastructure/metrics"
	"github.com/iho/autotransfer/internal/usecase"
)

func TestNewPublisherWithoutBrokersLogs(t *testing.T) {
	publisher, closeFn := newPublisher(&config.Config{}, zerolog.Nop())
	defer closeFn()

	_, ok := publisher.(*eventpublisher.LogPublisher)
	assert.True(t, ok, "expected log publisher, got %T", publisher)
}

func TestDemoStoreSupportsTransfers(t *testing.T) {
	store, err := newDemoStore(time.Second)
	require.NoError(t, err)

	repos := memoryRepositories(store)
	transfers := usecase.NewTransferUseCase(
		repos.txManager, repos.accounts, repos.ledger, repos.members, repos.categories,
		auth.NewBcryptVerifier(), idgen.NewULIDGenerator(),
	).WithOutbox(repos.outbox)

	_, err = transfers.ExecuteInteractiveTransfer(t.Context(), domain.TransferInput{
		MemberID:        "member-1",
		FromAccountID:   "account-1",
		ToBankName:      "NH",
		ToAccountNumber: "200-0001",
		Credential:      demoCredential,
		Amount:          1000,
	})
	require.NoError(t, err)

	broken, err := usecase.NewLedgerUseCase(repos.accounts, repos.ledger).VerifyAll(t.Context())
	require.NoError(t, err)
	assert.Empty(t, broken)

	pending, err := repos.outbox.GetUnpublished(t.Context(), 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestAuthenticator(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	open := authenticator(&config.Config{}, m)(ok)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.MemberIDHeader, "member-1")
	rec := httptest.NewRecorder()
	open.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	secured := authenticator(&config.Config{AuthEnabled: true, JWTSecret: "s"}, m)(ok)
	rec = httptest.NewRecorder()
	secured.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "header identity must be ignored when auth is enabled")
}
