package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/convo-eval/internal/core"
	"github.com/target/convo-eval/internal/domain/model"
	"github.com/target/convo-eval/internal/mocks"
	"github.com/target/convo-eval/internal/service"
	"go.uber.org/mock/gomock"
)

type routerFixture struct {
	handler  http.Handler
	registry *service.JobRegistry
	source   *mocks.MockConversationSource
	scorer   *mocks.MockScorer
}

func newRouterFixture(t *testing.T, metrics []model.Metric) *routerFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	source := mocks.NewMockConversationSource(ctrl)
	scorer := mocks.NewMockScorer(ctrl)
	store := mocks.NewMockResultStore(ctrl)
	store.EXPECT().InsertResults(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	registry := service.NewJobRegistry(service.JobRegistryOptions{})
	sink, err := service.NewResultBuffer(service.ResultBufferOptions{Store: store})
	require.NoError(t, err)

	runner, err := service.NewEvaluationRunner(service.EvaluationRunnerOptions{
		Registry: registry,
		Source:   source,
		Scorer:   scorer,
		Sink:     sink,
		Metrics:  metrics,
	})
	require.NoError(t, err)

	return &routerFixture{
		handler: NewRouter(RouterServices{
			Runner:              runner,
			Registry:            registry,
			DefaultLookbackDays: 7,
		}),
		registry: registry,
		source:   source,
		scorer:   scorer,
	}
}

func (f *routerFixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateEvaluation_StartsJob(t *testing.T) {
	f := newRouterFixture(t, []model.Metric{
		{Name: "toxicity_score", Prompt: "rate", Type: model.MetricTypeNumeric, ApplicableAgents: []string{model.AgentWildcard}},
	})

	conversations := []model.Conversation{{AgentID: "support-agent", SessionID: "s-1"}}
	f.source.EXPECT().FetchConversations(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params core.FetchConversationsParams) ([]model.Conversation, error) {
			assert.Equal(t, 3, params.LookbackDays)
			assert.True(t, params.Recalculate)
			return conversations, nil
		}).Times(2)
	f.scorer.EXPECT().Evaluate(gomock.Any(), gomock.Any()).Return("1", nil).AnyTimes()

	rec := f.do(http.MethodPost, "/api/evaluations", `{"last_x_days": 3, "re_calculate": true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	job := decodeBody[model.Job](t, rec)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, 1, job.TotalConversations)
	assert.Equal(t, 1, job.TotalMetrics)
	assert.Equal(t, 3, job.LookbackDays)

	// Let the background run reach a terminal state before the mock
	// controller checks expectations.
	require.Eventually(t, func() bool {
		got, ok := f.registry.Get(job.ID)
		return ok && got.Status.Terminal()
	}, 5*time.Second, 10*time.Millisecond)
}

func TestCreateEvaluation_DefaultLookbackWhenOmitted(t *testing.T) {
	f := newRouterFixture(t, nil)

	f.source.EXPECT().FetchConversations(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params core.FetchConversationsParams) ([]model.Conversation, error) {
			assert.Equal(t, 7, params.LookbackDays)
			return nil, nil
		})

	rec := f.do(http.MethodPost, "/api/evaluations", `{}`)

	require.Equal(t, http.StatusOK, rec.Code)
	job := decodeBody[model.Job](t, rec)
	assert.Equal(t, model.JobStatusCompleted, job.Status)
	assert.Equal(t, 7, job.LookbackDays)
}

func TestCreateEvaluation_RejectsInvalidLookback(t *testing.T) {
	f := newRouterFixture(t, nil)

	rec := f.do(http.MethodPost, "/api/evaluations", `{"last_x_days": -2}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "invalid_request", body["error"])
}

func TestCreateEvaluation_RejectsMalformedJSON(t *testing.T) {
	f := newRouterFixture(t, nil)

	rec := f.do(http.MethodPost, "/api/evaluations", `{"last_x_days": `)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "invalid_json", body["error"])
}

func TestCreateEvaluation_SourceErrorReturns500(t *testing.T) {
	f := newRouterFixture(t, nil)

	f.source.EXPECT().FetchConversations(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("warehouse unavailable"))

	rec := f.do(http.MethodPost, "/api/evaluations", `{}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "start_failed", body["error"])
}

func TestGetEvaluation_ReturnsJob(t *testing.T) {
	f := newRouterFixture(t, nil)
	job := f.registry.Create(service.CreateJobParams{TotalConversations: 2, TotalMetrics: 3})

	rec := f.do(http.MethodGet, "/api/evaluations/"+job.ID, "")

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[model.Job](t, rec)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, 6, got.TotalEvaluations)
}

func TestGetEvaluation_UnknownID404(t *testing.T) {
	f := newRouterFixture(t, nil)

	rec := f.do(http.MethodGet, "/api/evaluations/no-such-job", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "not_found", body["error"])
}

func TestListEvaluations_NewestFirst(t *testing.T) {
	f := newRouterFixture(t, nil)
	first := f.registry.Create(service.CreateJobParams{TotalConversations: 1, TotalMetrics: 1})
	second := f.registry.Create(service.CreateJobParams{TotalConversations: 1, TotalMetrics: 1})

	rec := f.do(http.MethodGet, "/api/evaluations", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[struct {
		Evaluations []model.Job `json:"evaluations"`
	}](t, rec)
	require.Len(t, body.Evaluations, 2)
	assert.Equal(t, second.ID, body.Evaluations[0].ID)
	assert.Equal(t, first.ID, body.Evaluations[1].ID)
}

func TestListEvaluations_StartFilter(t *testing.T) {
	f := newRouterFixture(t, nil)
	f.registry.Create(service.CreateJobParams{TotalConversations: 1, TotalMetrics: 1})

	future := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	rec := f.do(http.MethodGet, "/api/evaluations?start="+future, "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[struct {
		Evaluations []model.Job `json:"evaluations"`
	}](t, rec)
	assert.Empty(t, body.Evaluations)
}

func TestListEvaluations_MalformedStartIgnored(t *testing.T) {
	f := newRouterFixture(t, nil)
	f.registry.Create(service.CreateJobParams{TotalConversations: 1, TotalMetrics: 1})

	rec := f.do(http.MethodGet, "/api/evaluations?start=yesterday", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[struct {
		Evaluations []model.Job `json:"evaluations"`
	}](t, rec)
	assert.Len(t, body.Evaluations, 1)
}

func TestStopEvaluation_StopsActiveJob(t *testing.T) {
	f := newRouterFixture(t, nil)
	job := f.registry.Create(service.CreateJobParams{TotalConversations: 1, TotalMetrics: 1})

	rec := f.do(http.MethodPost, "/api/evaluations/"+job.ID+"/stop", "")

	require.Equal(t, http.StatusOK, rec.Code)
	got, _ := f.registry.Get(job.ID)
	assert.Equal(t, model.JobStatusStopped, got.Status)
}

func TestStopEvaluation_TerminalJob404(t *testing.T) {
	f := newRouterFixture(t, nil)
	job := f.registry.Create(service.CreateJobParams{TotalConversations: 1, TotalMetrics: 1})
	f.registry.SetStatus(job.ID, model.JobStatusCompleted)

	rec := f.do(http.MethodPost, "/api/evaluations/"+job.ID+"/stop", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListMetrics_ReturnsConfiguredMetrics(t *testing.T) {
	metrics := []model.Metric{
		{Name: "toxicity_score", Prompt: "rate", Type: model.MetricTypeNumeric, ApplicableAgents: []string{model.AgentWildcard}},
		{Name: "compliance_status", Prompt: "check", Type: model.MetricTypeString, ApplicableAgents: []string{"billing-agent"}},
	}
	f := newRouterFixture(t, metrics)

	rec := f.do(http.MethodGet, "/api/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[struct {
		Metrics      []model.Metric `json:"metrics"`
		TotalMetrics int            `json:"total_metrics"`
	}](t, rec)
	assert.Equal(t, 2, body.TotalMetrics)
	require.Len(t, body.Metrics, 2)
	assert.Equal(t, "toxicity_score", body.Metrics[0].Name)
}

func TestListMetrics_EmptyListNotNull(t *testing.T) {
	f := newRouterFixture(t, nil)

	rec := f.do(http.MethodGet, "/api/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"metrics":[]`)
}

func TestHealthz(t *testing.T) {
	f := newRouterFixture(t, nil)

	rec := f.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
