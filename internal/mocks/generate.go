// Package mocks provides mock implementations for testing the evaluation system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the core ports. The mocks are generated using go:generate directives and
// provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	source := mocks.NewMockConversationSource(ctrl)
//	source.EXPECT().FetchConversations(gomock.Any(), gomock.Any()).Return(convs, nil)
package mocks

// Generate mock for ConversationSource interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=conversation_source_mock.go github.com/target/convo-eval/internal/core ConversationSource

// Generate mock for Scorer interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=scorer_mock.go github.com/target/convo-eval/internal/core Scorer

// Generate mock for ResultStore interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=result_store_mock.go github.com/target/convo-eval/internal/core ResultStore
