package memstore

import (
	"context"
	"fmt"
)

type txKey struct{}

// TxManager менеджер транзакций хранилища в памяти
// Все транзакции выполняются последовательно, что эквивалентно уровню SERIALIZABLE
type TxManager struct {
	store *Store
}

// Do выполняет fn в транзакции
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoSerializable выполняет fn в транзакции
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoReadOnly выполняет fn в транзакции
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if inTransaction(ctx) {
		return fn(ctx)
	}

	s := m.store
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.state.clone()
	s.mu.Unlock()

	rollback := func() {
		s.mu.Lock()
		s.state = snapshot
		s.mu.Unlock()
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		rollback()
		return err
	}

	unlock, err := s.enter(context.WithoutCancel(ctx), OpCommitTransaction)
	if err != nil {
		rollback()
		return fmt.Errorf("memstore: commit: %w", err)
	}
	unlock()

	return nil
}

func inTransaction(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}
