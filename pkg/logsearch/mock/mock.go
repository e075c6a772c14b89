package mock

import (
	"context"
	"errors"

	"github.com/nauta/nauta-gui/pkg/logsearch"
)

type LastLogsArgs struct {
	Run   string
	Owner string
	N     int
	Sep   string
}

type ExportArgs struct {
	Run   string
	Owner string
}

type MockSearcher struct {
	Impl struct {
		LastLogs func(ctx context.Context, run, owner string, n int, sep string) (string, error)
		Export   func(ctx context.Context, run, owner string, emit func([]string) error) error
	}
	Calls struct {
		LastLogs []LastLogsArgs
		Export   []ExportArgs
	}
}

// type check
var _ logsearch.Searcher = &MockSearcher{}

func New() *MockSearcher {
	return &MockSearcher{}
}

func (m *MockSearcher) LastLogs(ctx context.Context, run, owner string, n int, sep string) (string, error) {
	m.Calls.LastLogs = append(m.Calls.LastLogs, LastLogsArgs{Run: run, Owner: owner, N: n, Sep: sep})
	if m.Impl.LastLogs == nil {
		return "", errors.New("[MOCK] not implemented")
	}
	return m.Impl.LastLogs(ctx, run, owner, n, sep)
}

func (m *MockSearcher) Export(ctx context.Context, run, owner string, emit func([]string) error) error {
	m.Calls.Export = append(m.Calls.Export, ExportArgs{Run: run, Owner: owner})
	if m.Impl.Export == nil {
		return errors.New("[MOCK] not implemented")
	}
	return m.Impl.Export(ctx, run, owner, emit)
}
