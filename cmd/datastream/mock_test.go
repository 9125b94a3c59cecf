package datastream

import (
	"fmt"
	"time"

	"github.com/streamkeeper/dsadmin/internal/elasticsearch"
)

// mockESClient is a mock implementing the administration interface for
// command-level tests
type mockESClient struct {
	existing map[string]bool
	indices  map[string][]elasticsearch.BackingIndex
	created  map[string]time.Time

	createdStreams  []string
	rolledOver      []string
	deletedIndices  []string
	cleanedStreams  []string
	checkConnErr    error
	createErr       error
	rolloverErr     error
	deleteErr       error
	backingErr      error
	cleanErr        error
	connectionCheck int
}

func (m *mockESClient) CheckConnection() error {
	m.connectionCheck++
	return m.checkConnErr
}

func (m *mockESClient) DataStreamExists(name string) (bool, error) {
	return m.existing[name], nil
}

func (m *mockESClient) CreateDataStream(name string) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.createdStreams = append(m.createdStreams, name)
	return nil
}

func (m *mockESClient) RolloverDataStream(name string) error {
	if m.rolloverErr != nil {
		return m.rolloverErr
	}
	if !m.existing[name] {
		// Soft-fail contract: missing stream is not an error
		return nil
	}
	m.rolledOver = append(m.rolledOver, name)
	return nil
}

func (m *mockESClient) DeleteIndex(index string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedIndices = append(m.deletedIndices, index)
	return nil
}

func (m *mockESClient) BackingIndices(name string) ([]elasticsearch.BackingIndex, error) {
	if m.backingErr != nil {
		return nil, m.backingErr
	}
	indices, ok := m.indices[name]
	if !ok {
		return nil, fmt.Errorf("data stream %s not found in response", name)
	}
	return indices, nil
}

func (m *mockESClient) IndexCreationTime(index string) (time.Time, error) {
	created, ok := m.created[index]
	if !ok {
		return time.Time{}, fmt.Errorf("index %s not found in response", index)
	}
	return created, nil
}

func (m *mockESClient) CleanOldIndices(name string, _ int, _ bool) error {
	if m.cleanErr != nil {
		return m.cleanErr
	}
	if !m.existing[name] {
		return nil
	}
	m.cleanedStreams = append(m.cleanedStreams, name)
	return nil
}

// Ensure the mock satisfies the interface the commands depend on
var _ elasticsearch.Interface = (*mockESClient)(nil)
