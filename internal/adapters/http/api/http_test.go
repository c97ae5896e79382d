package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/jobaccept/internal/adapters/http/api"
	service "github.com/okian/jobaccept/internal/app"
	"github.com/okian/jobaccept/internal/domain/candidate"
	"github.com/okian/jobaccept/internal/domain/kpi"
	"github.com/okian/jobaccept/internal/domain/prediction"
	"github.com/okian/jobaccept/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	summary      kpi.Summary
	breakdown    kpi.Breakdown
	kpiErr       error
	prediction   types.Prediction
	predictErr   error
	health       types.Health
	lastRecord   candidate.Record
	predictCalls int
}

func (m *mockDependencies) KPIs(context.Context) (kpi.Summary, error) {
	return m.summary, m.kpiErr
}

func (m *mockDependencies) Breakdown(context.Context) (kpi.Breakdown, error) {
	return m.breakdown, m.kpiErr
}

func (m *mockDependencies) Predict(_ context.Context, rec candidate.Record) (types.Prediction, error) {
	m.predictCalls++
	m.lastRecord = rec
	return m.prediction, m.predictErr
}

func (m *mockDependencies) Schema() types.Schema {
	return types.Schema{Fields: candidate.Schema(), Labels: []string{"not placed", "placed"}}
}

func (m *mockDependencies) Health() types.Health {
	return m.health
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}})
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var out map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

func validPayload() string {
	b, _ := json.Marshal(candidate.Default())
	return string(b)
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := &mockDependencies{health: types.Health{Status: types.HealthOK, DatasetLoaded: true, ArtifactsLoaded: true}}
		mux := newMux(deps)

		Convey("Then health endpoint should be accessible", func() {
			w := do(mux, "GET", "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And metrics endpoint should expose the registry", func() {
			w := do(mux, "GET", "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "jobaccept_")
		})

		Convey("And stats endpoint should be accessible", func() {
			w := do(mux, "GET", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("And schema endpoint should list the form fields", func() {
			w := do(mux, "GET", "/schema", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var schema types.Schema
			So(json.Unmarshal(w.Body.Bytes(), &schema), ShouldBeNil)
			So(len(schema.Fields), ShouldEqual, len(candidate.Schema()))
			So(schema.Fields[0].Name, ShouldEqual, candidate.FieldAgeYears)
		})

		Convey("And unknown paths should not be handled", func() {
			w := do(mux, "GET", "/unknown", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And wrong methods should be rejected", func() {
			So(do(mux, "POST", "/kpis", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(do(mux, "GET", "/predict", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(do(mux, "DELETE", "/schema", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})

	Convey("Given a nil mux", t, func() {
		server := api.NewServer(&mockDependencies{}, &mockStatsProvider{})
		So(func() { server.Register(context.Background(), nil) }, ShouldPanic)
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	Convey("Given a degraded service", t, func() {
		deps := &mockDependencies{health: types.Health{
			Status:         types.HealthDegraded,
			DatasetLoaded:  true,
			ArtifactsError: "artifact load failed",
		}}
		handler := api.NewHealthHandler(deps)

		Convey("When checking health", func() {
			w := httptest.NewRecorder()
			handler.HandleHealth(w, httptest.NewRequest("GET", "/healthz", http.NoBody))

			Convey("Then it should answer 503 with the component state", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				var h types.Health
				So(json.Unmarshal(w.Body.Bytes(), &h), ShouldBeNil)
				So(h.DatasetLoaded, ShouldBeTrue)
				So(h.ArtifactsLoaded, ShouldBeFalse)
				So(h.ArtifactsError, ShouldEqual, "artifact load failed")
			})
		})
	})
}

func TestKPIHandler(t *testing.T) {
	Convey("Given a service with KPIs", t, func() {
		deps := &mockDependencies{
			summary: kpi.Summary{TotalCandidates: 4, PlacementRate: 50, NotPlacedRate: 50, AvgInterviewScore: 61.25},
			breakdown: kpi.Breakdown{
				ByStatus:     []kpi.StatusCount{{Status: "not placed", Count: 2}, {Status: "placed", Count: 2}},
				ByTierStatus: []kpi.TierStatusCount{{CompanyTier: "tier 1", Status: "placed", Count: 2}},
			},
		}
		mux := newMux(deps)

		Convey("When requesting the summary", func() {
			w := do(mux, "GET", "/kpis", "")

			Convey("Then the summary should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var s kpi.Summary
				So(json.Unmarshal(w.Body.Bytes(), &s), ShouldBeNil)
				So(s, ShouldResemble, deps.summary)
			})
		})

		Convey("When requesting the breakdown", func() {
			w := do(mux, "GET", "/kpis/breakdown", "")

			Convey("Then the aggregates should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var b kpi.Breakdown
				So(json.Unmarshal(w.Body.Bytes(), &b), ShouldBeNil)
				So(b, ShouldResemble, deps.breakdown)
			})
		})
	})

	Convey("Given an empty dataset", t, func() {
		mux := newMux(&mockDependencies{kpiErr: kpi.ErrEmptyDataset})

		Convey("Then both routes answer 422 empty_dataset", func() {
			for _, path := range []string{"/kpis", "/kpis/breakdown"} {
				w := do(mux, "GET", path, "")
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(decodeError(w)["code"], ShouldEqual, "empty_dataset")
			}
		})
	})

	Convey("Given a summary that cannot be encoded", t, func() {
		mux := newMux(&mockDependencies{summary: kpi.Summary{TotalCandidates: 2, AvgInterviewScore: math.NaN()}})

		Convey("Then the summary answers 500 with a message instead of an empty body", func() {
			w := do(mux, "GET", "/kpis", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decodeError(w)["code"], ShouldEqual, "internal_error")
			So(decodeError(w)["message"], ShouldContainSubstring, "unsupported value")
		})
	})

	Convey("Given a dataset that failed to load", t, func() {
		mux := newMux(&mockDependencies{kpiErr: fmt.Errorf("%w: open data.csv", service.ErrDatasetUnavailable)})

		Convey("Then the summary answers 503 dataset_unavailable", func() {
			w := do(mux, "GET", "/kpis", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(decodeError(w)["code"], ShouldEqual, "dataset_unavailable")
			So(decodeError(w)["message"], ShouldContainSubstring, "data.csv")
		})
	})
}

func TestPredictHandler_HandlePredict(t *testing.T) {
	Convey("Given a service that predicts", t, func() {
		deps := &mockDependencies{prediction: types.Prediction{
			PredictionID: "p-1",
			Label:        "placed",
			DisplayLabel: "PLACED",
			Confidence:   87.5,
			Code:         1,
		}}
		mux := newMux(deps)

		Convey("When posting a valid candidate", func() {
			w := do(mux, "POST", "/predict", validPayload())

			Convey("Then the prediction should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var p types.Prediction
				So(json.Unmarshal(w.Body.Bytes(), &p), ShouldBeNil)
				So(p.Label, ShouldEqual, "placed")
				So(p.DisplayLabel, ShouldEqual, "PLACED")
				So(p.Confidence, ShouldEqual, 87.5)
				So(deps.lastRecord, ShouldResemble, candidate.Default())
			})
		})

		Convey("When a field is missing", func() {
			body := strings.Replace(validPayload(), `"gender":"male",`, "", 1)
			w := do(mux, "POST", "/predict", body)

			Convey("Then it should answer 400 naming the field", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
				So(decodeError(w)["message"], ShouldContainSubstring, "gender")
				So(deps.predictCalls, ShouldEqual, 0)
			})
		})

		Convey("When a value is out of bounds", func() {
			body := strings.Replace(validPayload(), `"technical_score":70`, `"technical_score":140`, 1)
			w := do(mux, "POST", "/predict", body)

			Convey("Then it should answer 400 naming the field", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["message"], ShouldContainSubstring, "technical_score")
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(mux, "POST", "/predict", "not json")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the content type is wrong", func() {
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(validPayload()))
			req.Header.Set("Content-Type", "text/plain")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusUnsupportedMediaType)
		})

		Convey("When the body is too large", func() {
			w := do(mux, "POST", "/predict", `{"gender":"`+strings.Repeat("x", 70<<10)+`"}`)
			So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			So(decodeError(w)["code"], ShouldEqual, "payload_too_large")
		})
	})

	Convey("Given prediction failures", t, func() {
		cases := []struct {
			err    error
			status int
			code   string
		}{
			{&prediction.SchemaMismatchError{Stage: "classifier", Missing: []string{"interview_avg"}}, http.StatusUnprocessableEntity, "schema_mismatch"},
			{fmt.Errorf("%w: model missing", service.ErrPredictionUnavailable), http.StatusServiceUnavailable, "prediction_unavailable"},
			{fmt.Errorf("%w: NaN", prediction.ErrInvalidOutput), http.StatusInternalServerError, "internal_error"},
			{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
		}

		for _, tc := range cases {
			Convey("When Predict fails with "+tc.code+" ("+tc.err.Error()+")", func() {
				mux := newMux(&mockDependencies{predictErr: tc.err})
				w := do(mux, "POST", "/predict", validPayload())

				So(w.Code, ShouldEqual, tc.status)
				So(decodeError(w)["code"], ShouldEqual, tc.code)
			})
		}

		Convey("Then a schema mismatch names the fields", func() {
			mux := newMux(&mockDependencies{predictErr: &prediction.SchemaMismatchError{Stage: "classifier", Missing: []string{"interview_avg"}}})
			w := do(mux, "POST", "/predict", validPayload())
			So(decodeError(w)["message"], ShouldContainSubstring, "interview_avg")
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats provider", t, func() {
		provider := &mockStatsProvider{stats: map[string]interface{}{"predictionsTotal": 3, "datasetRows": 60}}
		handler := api.NewStatsHandler(provider)

		Convey("When requesting stats", func() {
			w := httptest.NewRecorder()
			handler.HandleStats(w, httptest.NewRequest("GET", "/stats", http.NoBody))

			Convey("Then the stats map should be encoded", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
				var out map[string]float64
				So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
				So(out["predictionsTotal"], ShouldEqual, 3.0)
				So(out["datasetRows"], ShouldEqual, 60.0)
			})
		})
	})
}
