package api_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/playbook/internal/adapters/dataset"
	"github.com/okian/playbook/internal/adapters/http/api"
	service "github.com/okian/playbook/internal/app"
	"github.com/okian/playbook/internal/domain/cluster"
	"github.com/okian/playbook/internal/domain/features"
	"github.com/okian/playbook/internal/domain/model"
	"github.com/okian/playbook/internal/domain/position"
	"github.com/okian/playbook/internal/domain/similarity"
	"github.com/okian/playbook/internal/sampledata"
	"github.com/okian/playbook/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// mockDependencies records requests and returns canned results or errors.
type mockDependencies struct {
	modelErr   error
	similarErr error
	seasonsErr error
	lastModel  service.ModelRequest
	lastSim    service.SimilarRequest
}

func (m *mockDependencies) Model(_ context.Context, req service.ModelRequest) (*service.ModelReport, error) {
	m.lastModel = req
	if m.modelErr != nil {
		return nil, m.modelErr
	}
	return &service.ModelReport{Season: req.Season, Position: req.Position, RecommendedK: 3, ChosenK: 3}, nil
}

func (m *mockDependencies) Similar(_ context.Context, req service.SimilarRequest) (*service.SimilarReport, error) {
	m.lastSim = req
	if m.similarErr != nil {
		return nil, m.similarErr
	}
	return &service.SimilarReport{Season: req.Season, Position: req.Position}, nil
}

func (m *mockDependencies) Seasons(context.Context) ([]int, error) {
	if m.seasonsErr != nil {
		return nil, m.seasonsErr
	}
	return []int{2023, 2022}, nil
}

func (m *mockDependencies) Positions() []position.Profile { return position.Profiles() }

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newRouter(deps api.Dependencies, opts ...api.Option) http.Handler {
	r := chi.NewRouter()
	api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}}, opts...).
		Register(context.Background(), r)
	return r
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{}
		h := newRouter(deps)

		Convey("Then the health endpoint reports ok", func() {
			w := get(h, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("Then the metrics endpoint exposes the registry", func() {
			_ = get(h, "/healthz")
			w := get(h, "/metrics")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "playbook_engine_http_requests_total")
		})

		Convey("Then stats are served as JSON", func() {
			w := get(h, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("Then positions and seasons are listed", func() {
			w := get(h, "/v1/positions")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"Receiver"`)

			w = get(h, "/v1/seasons")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"seasons":[2023,2022]`)
		})

		Convey("Then unknown routes and methods are rejected", func() {
			So(get(h, "/nope").Code, ShouldEqual, http.StatusNotFound)
			req := httptest.NewRequest(http.MethodPost, "/v1/archetypes", http.NoBody)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestArchetypesHandler(t *testing.T) {
	Convey("Given the archetypes endpoint", t, func() {
		deps := &mockDependencies{}
		h := newRouter(deps)

		Convey("When all parameters are valid", func() {
			w := get(h, "/v1/archetypes?season=2023&position=QB&min_usage=200&k=4")

			Convey("Then the request is forwarded", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastModel.Season, ShouldEqual, 2023)
				So(deps.lastModel.Position, ShouldEqual, model.QB)
				So(*deps.lastModel.MinUsage, ShouldEqual, 200)
				So(*deps.lastModel.K, ShouldEqual, 4)
				So(w.Body.String(), ShouldContainSubstring, `"recommended_k":3`)
			})
		})

		Convey("When optional parameters are omitted", func() {
			w := get(h, "/v1/archetypes?season=2023&position=RB")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastModel.MinUsage, ShouldBeNil)
			So(deps.lastModel.K, ShouldBeNil)
		})

		Convey("When parameters are missing or malformed", func() {
			for _, target := range []string{
				"/v1/archetypes?position=QB",
				"/v1/archetypes?season=abc&position=QB",
				"/v1/archetypes?season=2023",
				"/v1/archetypes?season=2023&position=QB&min_usage=-5",
				"/v1/archetypes?season=2023&position=QB&k=two",
			} {
				w := get(h, target)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			}
		})
	})
}

func TestDomainErrorMapping(t *testing.T) {
	Convey("Given engine errors", t, func() {
		cases := []struct {
			err    error
			status int
			code   string
		}{
			{&features.InsufficientDataError{Size: 3, Min: 10}, http.StatusUnprocessableEntity, service.KindInsufficientData},
			{&similarity.PlayerNotFoundError{PlayerName: "x"}, http.StatusNotFound, service.KindPlayerNotFound},
			{&cluster.InvalidKError{K: 12, Min: 1, Max: 8}, http.StatusBadRequest, service.KindInvalidK},
			{fmt.Errorf("wrap: %w", position.ErrUnknownPosition), http.StatusBadRequest, service.KindUnknownPosition},
			{fmt.Errorf("%w: gone", dataset.ErrUnavailable), http.StatusServiceUnavailable, service.KindDatasetUnavailable},
			{fmt.Errorf("boom"), http.StatusInternalServerError, service.KindInternal},
		}

		for _, tc := range cases {
			Convey(fmt.Sprintf("When the engine fails with %v", tc.err), func() {
				deps := &mockDependencies{modelErr: tc.err, similarErr: tc.err}
				h := newRouter(deps)

				w := get(h, "/v1/archetypes?season=2023&position=QB")
				So(w.Code, ShouldEqual, tc.status)
				So(decodeError(w)["code"], ShouldEqual, tc.code)

				w = get(h, "/v1/similar?season=2023&position=QB&player=x")
				So(w.Code, ShouldEqual, tc.status)
			})
		}
	})
}

func TestSimilarHandler(t *testing.T) {
	Convey("Given the similar endpoint", t, func() {
		deps := &mockDependencies{}
		h := newRouter(deps)

		Convey("When a player is requested", func() {
			w := get(h, "/v1/similar?season=2022&position=Receiver&player=Jalen%20Adams&team=KC&n=5")

			Convey("Then the request is forwarded", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastSim.Player, ShouldEqual, "Jalen Adams")
				So(deps.lastSim.Team, ShouldEqual, "KC")
				So(deps.lastSim.N, ShouldEqual, 5)
				So(deps.lastSim.Position, ShouldEqual, model.Receiver)
			})
		})

		Convey("When the player is missing or n is out of range", func() {
			So(get(h, "/v1/similar?season=2022&position=QB").Code, ShouldEqual, http.StatusBadRequest)
			So(get(h, "/v1/similar?season=2022&position=QB&player=a&n=-1").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestRateLimit(t *testing.T) {
	Convey("Given a server limited to two modeling requests per minute", t, func() {
		h := newRouter(&mockDependencies{}, api.WithRateLimit(2))

		Convey("When a client exceeds the limit", func() {
			codes := make([]int, 0, 3)
			for range 3 {
				codes = append(codes, get(h, "/v1/archetypes?season=2023&position=QB").Code)
			}

			Convey("Then the third request is throttled", func() {
				So(codes, ShouldResemble, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests})
			})

			Convey("Then catalog routes are not limited", func() {
				So(get(h, "/v1/positions").Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestEndToEnd(t *testing.T) {
	Convey("Given the real engine over generated data", t, func() {
		recs, err := sampledata.Generate(sampledata.Config{Seed: 3, FirstSeason: 2023, Seasons: 1, QBs: 24, BelowUsage: 2})
		So(err, ShouldBeNil)
		svc := service.New(service.WithSource(dataset.NewStaticSource("e2e", recs)))
		h := newRouter(svc)

		Convey("When modeling quarterbacks", func() {
			w := get(h, "/v1/archetypes?season=2023&position=qb")

			Convey("Then a full report is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var report service.ModelReport
				So(json.Unmarshal(w.Body.Bytes(), &report), ShouldBeNil)
				So(report.CohortSize, ShouldEqual, 24)
				So(report.Assignments, ShouldHaveLength, 24)
				So(report.Diagnostics, ShouldHaveLength, 7)
			})
		})

		Convey("When searching for a low-usage quarterback", func() {
			low := recs[24].PlayerName
			w := get(h, "/v1/similar?season=2023&position=QB&player="+url.QueryEscape(low))

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "player_not_found")
			})
		})

		Convey("When the season is too small", func() {
			w := get(h, "/v1/archetypes?season=2023&position=RB")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
		})
	})
}
