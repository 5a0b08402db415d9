package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

var _ lawRepo = &lawRepoMock{}

type lawRepoMock struct {
	CreateFunc               func(ctx context.Context, law domain.LawChange) (domain.LawChange, error)
	GetByFingerprintFunc     func(ctx context.Context, fingerprint string) (domain.LawChange, error)
	ListPublishedBetweenFunc func(ctx context.Context, from time.Time, to time.Time) ([]domain.LawChange, error)
	UpdateMergedFunc         func(ctx context.Context, law domain.LawChange) error
	UpdateDescriptionFunc    func(ctx context.Context, id uuid.UUID, description string, at time.Time) error

	calls struct {
		Create []struct {
			Ctx context.Context
			Law domain.LawChange
		}
		GetByFingerprint []struct {
			Ctx         context.Context
			Fingerprint string
		}
		ListPublishedBetween []struct {
			Ctx  context.Context
			From time.Time
			To   time.Time
		}
		UpdateMerged []struct {
			Ctx context.Context
			Law domain.LawChange
		}
		UpdateDescription []struct {
			Ctx         context.Context
			Id          uuid.UUID
			Description string
			At          time.Time
		}
	}
	lockCreate               sync.RWMutex
	lockGetByFingerprint     sync.RWMutex
	lockListPublishedBetween sync.RWMutex
	lockUpdateMerged         sync.RWMutex
	lockUpdateDescription    sync.RWMutex
}

func (mock *lawRepoMock) Create(ctx context.Context, law domain.LawChange) (domain.LawChange, error) {
	if mock.CreateFunc == nil {
		panic("lawRepoMock.CreateFunc: method is nil but lawRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Law domain.LawChange
	}{
		Ctx: ctx,
		Law: law,
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, law)
}

func (mock *lawRepoMock) CreateCalls() []struct {
	Ctx context.Context
	Law domain.LawChange
} {
	var calls []struct {
		Ctx context.Context
		Law domain.LawChange
	}
	mock.lockCreate.RLock()
	calls = mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *lawRepoMock) GetByFingerprint(ctx context.Context, fingerprint string) (domain.LawChange, error) {
	if mock.GetByFingerprintFunc == nil {
		panic("lawRepoMock.GetByFingerprintFunc: method is nil but lawRepo.GetByFingerprint was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		Fingerprint string
	}{
		Ctx:         ctx,
		Fingerprint: fingerprint,
	}
	mock.lockGetByFingerprint.Lock()
	mock.calls.GetByFingerprint = append(mock.calls.GetByFingerprint, callInfo)
	mock.lockGetByFingerprint.Unlock()
	return mock.GetByFingerprintFunc(ctx, fingerprint)
}

func (mock *lawRepoMock) GetByFingerprintCalls() []struct {
	Ctx         context.Context
	Fingerprint string
} {
	var calls []struct {
		Ctx         context.Context
		Fingerprint string
	}
	mock.lockGetByFingerprint.RLock()
	calls = mock.calls.GetByFingerprint
	mock.lockGetByFingerprint.RUnlock()
	return calls
}

func (mock *lawRepoMock) ListPublishedBetween(ctx context.Context, from time.Time, to time.Time) ([]domain.LawChange, error) {
	if mock.ListPublishedBetweenFunc == nil {
		panic("lawRepoMock.ListPublishedBetweenFunc: method is nil but lawRepo.ListPublishedBetween was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		From time.Time
		To   time.Time
	}{
		Ctx:  ctx,
		From: from,
		To:   to,
	}
	mock.lockListPublishedBetween.Lock()
	mock.calls.ListPublishedBetween = append(mock.calls.ListPublishedBetween, callInfo)
	mock.lockListPublishedBetween.Unlock()
	return mock.ListPublishedBetweenFunc(ctx, from, to)
}

func (mock *lawRepoMock) ListPublishedBetweenCalls() []struct {
	Ctx  context.Context
	From time.Time
	To   time.Time
} {
	var calls []struct {
		Ctx  context.Context
		From time.Time
		To   time.Time
	}
	mock.lockListPublishedBetween.RLock()
	calls = mock.calls.ListPublishedBetween
	mock.lockListPublishedBetween.RUnlock()
	return calls
}

func (mock *lawRepoMock) UpdateMerged(ctx context.Context, law domain.LawChange) error {
	if mock.UpdateMergedFunc == nil {
		panic("lawRepoMock.UpdateMergedFunc: method is nil but lawRepo.UpdateMerged was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Law domain.LawChange
	}{
		Ctx: ctx,
		Law: law,
	}
	mock.lockUpdateMerged.Lock()
	mock.calls.UpdateMerged = append(mock.calls.UpdateMerged, callInfo)
	mock.lockUpdateMerged.Unlock()
	return mock.UpdateMergedFunc(ctx, law)
}

func (mock *lawRepoMock) UpdateMergedCalls() []struct {
	Ctx context.Context
	Law domain.LawChange
} {
	var calls []struct {
		Ctx context.Context
		Law domain.LawChange
	}
	mock.lockUpdateMerged.RLock()
	calls = mock.calls.UpdateMerged
	mock.lockUpdateMerged.RUnlock()
	return calls
}

func (mock *lawRepoMock) UpdateDescription(ctx context.Context, id uuid.UUID, description string, at time.Time) error {
	if mock.UpdateDescriptionFunc == nil {
		panic("lawRepoMock.UpdateDescriptionFunc: method is nil but lawRepo.UpdateDescription was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		Id          uuid.UUID
		Description string
		At          time.Time
	}{
		Ctx:         ctx,
		Id:          id,
		Description: description,
		At:          at,
	}
	mock.lockUpdateDescription.Lock()
	mock.calls.UpdateDescription = append(mock.calls.UpdateDescription, callInfo)
	mock.lockUpdateDescription.Unlock()
	return mock.UpdateDescriptionFunc(ctx, id, description, at)
}

func (mock *lawRepoMock) UpdateDescriptionCalls() []struct {
	Ctx         context.Context
	Id          uuid.UUID
	Description string
	At          time.Time
} {
	var calls []struct {
		Ctx         context.Context
		Id          uuid.UUID
		Description string
		At          time.Time
	}
	mock.lockUpdateDescription.RLock()
	calls = mock.calls.UpdateDescription
	mock.lockUpdateDescription.RUnlock()
	return calls
}
