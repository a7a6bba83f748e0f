package reconciler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sahayak/internal/audit"
	"sahayak/internal/beneficiary"
	"sahayak/internal/recordstore"
	dErrors "sahayak/pkg/domain-errors"
)

type stubProber struct {
	online bool
}

func (p stubProber) Online(context.Context) bool { return p.online }

// recordingTransport captures uploaded batches and can fail, block, or both.
type recordingTransport struct {
	mu      sync.Mutex
	batches [][]beneficiary.Record
	err     error
	entered chan struct{}
	release chan struct{}
}

func (t *recordingTransport) Upload(ctx context.Context, records []beneficiary.Record) error {
	if t.entered != nil {
		close(t.entered)
	}
	if t.release != nil {
		select {
		case <-t.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if t.err != nil {
		return t.err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.batches = append(t.batches, records)
	return nil
}

func (t *recordingTransport) uploads() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.batches)
}

type ReconcilerSuite struct {
	suite.Suite
	kv        *recordstore.InMemoryKV
	transport *recordingTransport
	trail     *audit.MemoryPublisher
	service   *Service
}

func TestReconcilerSuite(t *testing.T) {
	suite.Run(t, new(ReconcilerSuite))
}

func (s *ReconcilerSuite) SetupTest() {
	s.kv = recordstore.NewInMemoryKV()
	s.transport = &recordingTransport{}
	s.trail = audit.NewMemoryPublisher()
	s.service = New(s.kv, s.transport, WithAuditPublisher(s.trail))
}

func (s *ReconcilerSuite) seed(records ...beneficiary.Record) {
	collection := recordstore.NewCollection[beneficiary.Record](s.kv, recordstore.KeyOfflineBeneficiaries)
	s.Require().NoError(collection.Save(context.Background(), records))
}

func (s *ReconcilerSuite) stored() []beneficiary.Record {
	collection := recordstore.NewCollection[beneficiary.Record](s.kv, recordstore.KeyOfflineBeneficiaries)
	records, err := collection.Load(context.Background())
	s.Require().NoError(err)
	return records
}

func pendingRecord(id int64) beneficiary.Record {
	return beneficiary.Record{
		ID:        id,
		Name:      "Lakshmi Devi",
		Aadhaar:   "123456789012",
		PhotoRef:  "file:///p.jpg",
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Status:    beneficiary.StatusPending,
	}
}

func (s *ReconcilerSuite) TestSyncFlipsPendingToSynced() {
	synced := pendingRecord(3)
	synced.Status = beneficiary.StatusSynced
	s.seed(pendingRecord(1), pendingRecord(2), synced)

	result, err := s.service.Sync(context.Background())
	s.Require().NoError(err)
	s.Equal(3, result.Total)
	s.Equal(2, result.Synced)

	// Only the pending records went over the wire.
	s.Require().Equal(1, s.transport.uploads())
	s.Len(s.transport.batches[0], 2)

	for _, r := range s.stored() {
		s.Equal(beneficiary.StatusSynced, r.Status)
	}

	events := s.trail.Events()
	s.Require().Len(events, 1)
	s.Equal(string(audit.EventRecordsSynced), events[0].Action)
}

func (s *ReconcilerSuite) TestSyncNothingToSyncOnEmptyCollection() {
	_, err := s.service.Sync(context.Background())
	s.Require().ErrorIs(err, ErrNothingToSync)
	s.Zero(s.transport.uploads())
}

func (s *ReconcilerSuite) TestSyncTrivialWhenAlreadySynced() {
	synced := pendingRecord(1)
	synced.Status = beneficiary.StatusSynced
	s.seed(synced)

	result, err := s.service.Sync(context.Background())
	s.Require().NoError(err)
	s.Equal(1, result.Total)
	s.Zero(result.Synced)
	s.Zero(s.transport.uploads(), "no upload for an already-synced collection")
}

func (s *ReconcilerSuite) TestSyncOfflineLeavesRecordsPending() {
	s.seed(pendingRecord(1))
	s.service = New(s.kv, s.transport, WithProber(stubProber{online: false}))

	_, err := s.service.Sync(context.Background())
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.Zero(s.transport.uploads())
	s.Equal(beneficiary.StatusPending, s.stored()[0].Status)
}

func (s *ReconcilerSuite) TestSyncUploadFailureCommitsNothing() {
	s.seed(pendingRecord(1))
	s.transport.err = errors.New("connection reset")

	_, err := s.service.Sync(context.Background())
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.Equal(beneficiary.StatusPending, s.stored()[0].Status)
}

func (s *ReconcilerSuite) TestSyncTimeoutCommitsNothing() {
	s.seed(pendingRecord(1))
	s.transport.release = make(chan struct{}) // never released; upload blocks
	s.service = New(s.kv, s.transport, WithTimeout(20*time.Millisecond))

	_, err := s.service.Sync(context.Background())
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	s.Equal(beneficiary.StatusPending, s.stored()[0].Status)
}

func (s *ReconcilerSuite) TestConcurrentSyncRejected() {
	s.seed(pendingRecord(1))
	s.transport.entered = make(chan struct{})
	s.transport.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := s.service.Sync(context.Background())
		done <- err
	}()

	<-s.transport.entered
	_, err := s.service.Sync(context.Background())
	s.Require().ErrorIs(err, ErrSyncInProgress)

	close(s.transport.release)
	s.Require().NoError(<-done)
}

func (s *ReconcilerSuite) TestSimulatedTransportHonorsContext() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := SimulatedTransport{Latency: time.Second}.Upload(ctx, nil)
	s.Require().ErrorIs(err, context.DeadlineExceeded)
}
