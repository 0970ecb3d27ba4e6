package service_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/playbook/internal/adapters/dataset"
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
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const season = 2023

func qb(name, team string, attempts, epa, sacks float64) model.PlayerSeason {
	return model.PlayerSeason{
		PlayerKey: model.PlayerKey{PlayerName: name, Team: team, Season: season, Position: "QB"},
		Stats: map[string]float64{
			"attempts":            attempts,
			"passing_epa":         epa,
			"rushing_epa":         epa / 10,
			"pacr":                0.9 + epa/1000,
			"dakota":              epa / 500,
			"passing_tds":         attempts / 20,
			"rushing_tds":         2,
			"passing_first_downs": attempts / 3,
			"sacks":               sacks,
			"interceptions":       10,
			"passing_yards":       attempts * 7,
			"rushing_yards":       100 + epa,
		},
	}
}

// qbCohort builds n varied quarterbacks above the default usage threshold.
func qbCohort(n int) []model.PlayerSeason {
	recs := make([]model.PlayerSeason, 0, n)
	for i := 0; i < n; i++ {
		recs = append(recs, qb(fmt.Sprintf("QB %02d", i), "T"+fmt.Sprint(i%4), float64(300+(i*37)%250), float64((i*53)%90-20), float64(15+(i*7)%20)))
	}
	return recs
}

func newService(recs []model.PlayerSeason, opts ...service.Option) *service.Service {
	opts = append([]service.Option{service.WithSource(dataset.NewStaticSource("test", recs))}, opts...)
	return service.New(opts...)
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := newService(qbCohort(12))
		defer svc.Stop()

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then it should be started with the dataset cached", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["cachedDatasets"], ShouldEqual, 1)
				So(stats["source"], ShouldEqual, "static:test")
			})

			Convey("And starting again is a no-op", func() {
				So(svc.Start(context.Background()), ShouldBeNil)
			})

			Convey("And stopping purges the cache", func() {
				svc.Stop()
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
				So(stats["cachedDatasets"], ShouldEqual, 0)
			})
		})
	})
}

func TestService_Model(t *testing.T) {
	Convey("Given a quarterback cohort", t, func() {
		ctx := context.Background()
		svc := newService(qbCohort(30))

		Convey("When modeling with the recommended k", func() {
			report, err := svc.Model(ctx, service.ModelRequest{Season: season, Position: model.QB})

			Convey("Then the sweep covers k = 2..8", func() {
				So(err, ShouldBeNil)
				So(report.RunID, ShouldNotBeEmpty)
				So(report.CohortSize, ShouldEqual, 30)
				So(report.MinUsage, ShouldEqual, 150)
				So(report.UsageField, ShouldEqual, "attempts")
				So(len(report.Diagnostics), ShouldEqual, cluster.MaxK-cluster.MinK+1)
				for i := 1; i < len(report.Diagnostics); i++ {
					So(report.Diagnostics[i].Inertia, ShouldBeLessThanOrEqualTo, report.Diagnostics[i-1].Inertia+1e-9)
				}
			})

			Convey("Then the recommended k has the best silhouette", func() {
				So(report.RecommendedK, ShouldBeBetweenOrEqual, cluster.MinK, cluster.MaxK)
				So(report.ChosenK, ShouldEqual, report.RecommendedK)
				So(report.RequestedK, ShouldBeNil)
				var best float64
				for _, d := range report.Diagnostics {
					if d.K == report.RecommendedK {
						best = d.Silhouette
					}
				}
				for _, d := range report.Diagnostics {
					if d.K < report.RecommendedK {
						So(d.Silhouette, ShouldBeLessThan, best)
					} else {
						So(d.Silhouette, ShouldBeLessThanOrEqualTo, best)
					}
				}
			})

			Convey("Then every record is assigned and projected", func() {
				So(len(report.Assignments), ShouldEqual, 30)
				total := 0
				for _, p := range report.Profiles {
					total += p.Size
					So(len(p.Means), ShouldEqual, len(report.Features))
				}
				So(total, ShouldEqual, 30)
				for _, a := range report.Assignments {
					So(a.Cluster, ShouldBeBetweenOrEqual, 0, report.ChosenK-1)
				}
				So(report.ExplainedVarianceRatio[0], ShouldBeGreaterThanOrEqualTo, report.ExplainedVarianceRatio[1])
			})

			Convey("Then derived features are used", func() {
				So(report.Features, ShouldContain, "total_tds")
				So(report.Features, ShouldContain, "total_turnovers")
			})
		})

		Convey("When modeling twice", func() {
			a, errA := svc.Model(ctx, service.ModelRequest{Season: season, Position: model.QB})
			b, errB := svc.Model(ctx, service.ModelRequest{Season: season, Position: model.QB})

			Convey("Then diagnostics and assignments are identical", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a.Diagnostics, ShouldResemble, b.Diagnostics)
				So(a.Assignments, ShouldResemble, b.Assignments)
				So(a.RunID, ShouldNotEqual, b.RunID)
			})
		})

		Convey("When k is overridden within range", func() {
			report, err := svc.Model(ctx, service.ModelRequest{Season: season, Position: model.QB, K: intPtr(3)})

			Convey("Then the swept model at k is used", func() {
				So(err, ShouldBeNil)
				So(report.ChosenK, ShouldEqual, 3)
				So(*report.RequestedK, ShouldEqual, 3)
				So(report.Inertia, ShouldEqual, report.Diagnostics[1].Inertia)
			})
		})

		Convey("When k = 1 is requested", func() {
			report, err := svc.Model(ctx, service.ModelRequest{Season: season, Position: model.QB, K: intPtr(1)})

			Convey("Then every record lands in cluster 0", func() {
				So(err, ShouldBeNil)
				So(report.Profiles, ShouldHaveLength, 1)
				for _, a := range report.Assignments {
					So(a.Cluster, ShouldEqual, 0)
				}
			})
		})

		Convey("When k is out of range in strict mode", func() {
			_, err := svc.Model(ctx, service.ModelRequest{Season: season, Position: model.QB, K: intPtr(9)})

			Convey("Then an InvalidKError is returned", func() {
				var kerr *cluster.InvalidKError
				So(errors.As(err, &kerr), ShouldBeTrue)
				So(kerr.K, ShouldEqual, 9)
				So(service.ErrorKind(err), ShouldEqual, service.KindInvalidK)
			})
		})

		Convey("When k is out of range in lenient mode", func() {
			lenient := newService(qbCohort(30), service.WithStrictK(false))
			report, err := lenient.Model(ctx, service.ModelRequest{Season: season, Position: model.QB, K: intPtr(0)})

			Convey("Then k is clamped", func() {
				So(err, ShouldBeNil)
				So(report.ChosenK, ShouldEqual, 1)
				So(*report.RequestedK, ShouldEqual, 0)
			})
		})

		Convey("When the position is unknown", func() {
			_, err := svc.Model(ctx, service.ModelRequest{Season: season, Position: "K"})
			So(errors.Is(err, position.ErrUnknownPosition), ShouldBeTrue)
			So(service.ErrorKind(err), ShouldEqual, service.KindUnknownPosition)
		})

		Convey("When the season has no players", func() {
			_, err := svc.Model(ctx, service.ModelRequest{Season: 1999, Position: model.QB})

			Convey("Then an InsufficientDataError is returned", func() {
				var ierr *features.InsufficientDataError
				So(errors.As(err, &ierr), ShouldBeTrue)
				So(ierr.Size, ShouldEqual, 0)
				So(ierr.Min, ShouldEqual, features.MinCohortSize)
			})
		})

		Convey("When the usage threshold leaves too few players", func() {
			_, err := svc.Model(ctx, service.ModelRequest{Season: season, Position: model.QB, MinUsage: floatPtr(540)})
			So(errors.Is(err, features.ErrInsufficientData), ShouldBeTrue)
			So(service.ErrorKind(err), ShouldEqual, service.KindInsufficientData)
		})

		Convey("When the usage threshold is out of bounds", func() {
			_, err := svc.Model(ctx, service.ModelRequest{Season: season, Position: model.QB, MinUsage: floatPtr(-1)})
			So(errors.Is(err, position.ErrInvalidUsage), ShouldBeTrue)
		})
	})
}

func TestService_ModelEdgeCases(t *testing.T) {
	Convey("Given ten identical quarterbacks", t, func() {
		ctx := context.Background()
		recs := make([]model.PlayerSeason, 10)
		for i := range recs {
			recs[i] = qb(fmt.Sprintf("Clone %d", i), "SAME", 400, 30, 25)
		}
		svc := newService(recs)

		Convey("When modeling", func() {
			report, err := svc.Model(ctx, service.ModelRequest{Season: season, Position: model.QB})

			Convey("Then it succeeds with degenerate diagnostics", func() {
				So(err, ShouldBeNil)
				So(report.RecommendedK, ShouldEqual, cluster.MinK)
				for _, d := range report.Diagnostics {
					So(d.Silhouette, ShouldEqual, 0)
					So(d.Degenerate, ShouldBeTrue)
					So(d.Inertia, ShouldEqual, 0)
				}
			})

			Convey("Then a single populated archetype is reported", func() {
				So(report.Profiles, ShouldHaveLength, 1)
				So(report.Profiles[0].Size, ShouldEqual, 10)
				for _, a := range report.Assignments {
					So(a.PC1, ShouldEqual, 0)
					So(a.PC2, ShouldEqual, 0)
				}
			})
		})
	})

	Convey("Given a cohort where one feature is constant", t, func() {
		ctx := context.Background()
		recs := qbCohort(15)
		for i := range recs {
			recs[i].Stats["sacks"] = 20
		}
		svc := newService(recs)

		Convey("When modeling", func() {
			report, err := svc.Model(ctx, service.ModelRequest{Season: season, Position: model.QB})
			So(err, ShouldBeNil)

			Convey("Then the constant feature standardizes to exactly zero", func() {
				col := -1
				for j, f := range report.Features {
					if f == "sacks" {
						col = j
					}
				}
				So(col, ShouldBeGreaterThanOrEqualTo, 0)
				for _, p := range report.Profiles {
					So(p.Centroid[col], ShouldEqual, 0)
					So(p.Means[col], ShouldEqual, 20)
				}
			})
		})
	})

	Convey("Given fifty receivers", t, func() {
		ctx := context.Background()
		recs, err := sampledata.Generate(sampledata.Config{Seed: 5, FirstSeason: season, Seasons: 1, WRs: 38, TEs: 12})
		So(err, ShouldBeNil)
		svc := newService(recs)

		Convey("When k = 4 is requested", func() {
			report, err := svc.Model(ctx, service.ModelRequest{
				Season: season, Position: model.Receiver, MinUsage: floatPtr(0), K: intPtr(4),
			})

			Convey("Then every record gets one label in [0,4) and at most 4 profiles exist", func() {
				So(err, ShouldBeNil)
				So(report.CohortSize, ShouldEqual, 50)
				So(report.Assignments, ShouldHaveLength, 50)
				seen := map[int]bool{}
				for _, a := range report.Assignments {
					So(a.Cluster, ShouldBeBetweenOrEqual, 0, 3)
					seen[a.Cluster] = true
				}
				So(len(report.Profiles), ShouldBeLessThanOrEqualTo, 4)
				So(len(report.Profiles), ShouldEqual, len(seen))
				total := 0
				for _, p := range report.Profiles {
					total += p.Size
				}
				So(total, ShouldEqual, 50)
			})
		})
	})
}

func TestService_Similar(t *testing.T) {
	Convey("Given a cohort with a low-usage quarterback", t, func() {
		ctx := context.Background()
		recs := append(qbCohort(14), qb("Low Volume", "BEN", 40, 5, 3))
		svc := newService(recs)

		Convey("When searching for a cohort member", func() {
			report, err := svc.Similar(ctx, service.SimilarRequest{Season: season, Position: model.QB, Player: "qb 03", N: 5})

			Convey("Then the player is excluded and scores are ordered", func() {
				So(err, ShouldBeNil)
				So(report.Query.PlayerName, ShouldEqual, "QB 03")
				So(report.Matches, ShouldHaveLength, 5)
				So(len(report.QueryFeatures), ShouldEqual, len(report.Features))
				for i, m := range report.Matches {
					So(m.Player.PlayerName, ShouldNotEqual, "QB 03")
					So(m.Score, ShouldBeGreaterThan, 0)
					So(m.Score, ShouldBeLessThanOrEqualTo, 100)
					So(m.Score, ShouldAlmostEqual, similarity.Score(m.Distance))
					if i > 0 {
						So(m.Distance, ShouldBeGreaterThanOrEqualTo, report.Matches[i-1].Distance)
					}
				}
			})
		})

		Convey("When n is omitted or too large", func() {
			def, err := svc.Similar(ctx, service.SimilarRequest{Season: season, Position: model.QB, Player: "QB 00"})
			So(err, ShouldBeNil)
			So(def.Matches, ShouldHaveLength, similarity.DefaultTopN)

			capped := newService(recs, service.WithTopN(3, 4))
			rep, err := capped.Similar(ctx, service.SimilarRequest{Season: season, Position: model.QB, Player: "QB 00", N: 50})
			So(err, ShouldBeNil)
			So(rep.Matches, ShouldHaveLength, 4)
		})

		Convey("When searching for the player filtered out by usage", func() {
			_, err := svc.Similar(ctx, service.SimilarRequest{Season: season, Position: model.QB, Player: "Low Volume"})

			Convey("Then a PlayerNotFoundError is returned", func() {
				var perr *similarity.PlayerNotFoundError
				So(errors.As(err, &perr), ShouldBeTrue)
				So(perr.PlayerName, ShouldEqual, "Low Volume")
				So(service.ErrorKind(err), ShouldEqual, service.KindPlayerNotFound)
			})
		})

		Convey("When the usage threshold is lowered", func() {
			report, err := svc.Similar(ctx, service.SimilarRequest{
				Season: season, Position: model.QB, Player: "Low Volume", MinUsage: floatPtr(0),
			})

			Convey("Then the player is found", func() {
				So(err, ShouldBeNil)
				So(report.CohortSize, ShouldEqual, 15)
			})
		})

		Convey("When the team does not match", func() {
			_, err := svc.Similar(ctx, service.SimilarRequest{Season: season, Position: model.QB, Player: "QB 01", Team: "NOPE"})
			So(errors.Is(err, similarity.ErrPlayerNotFound), ShouldBeTrue)
		})

		Convey("When no player is given", func() {
			_, err := svc.Similar(ctx, service.SimilarRequest{Season: season, Position: model.QB})
			So(errors.Is(err, service.ErrNoPlayer), ShouldBeTrue)
		})
	})
}

func TestService_Catalog(t *testing.T) {
	Convey("Given a multi-season dataset", t, func() {
		ctx := context.Background()
		recs, err := sampledata.Generate(sampledata.Config{Seed: 1, FirstSeason: 2020, Seasons: 3, QBs: 2})
		So(err, ShouldBeNil)
		svc := newService(recs)

		Convey("Then seasons are listed newest first", func() {
			seasons, err := svc.Seasons(ctx)
			So(err, ShouldBeNil)
			So(seasons, ShouldResemble, []int{2022, 2021, 2020})
		})

		Convey("Then the three position classes are listed", func() {
			profiles := svc.Positions()
			So(profiles, ShouldHaveLength, 3)
		})
	})

	Convey("Given a service without a source", t, func() {
		svc := service.New()

		Convey("Then data operations report the dataset as unavailable", func() {
			_, err := svc.Seasons(context.Background())
			So(errors.Is(err, service.ErrNoSource), ShouldBeTrue)
			_, err = svc.Model(context.Background(), service.ModelRequest{Season: season, Position: model.QB})
			So(service.ErrorKind(err), ShouldEqual, service.KindDatasetUnavailable)
		})
	})

	Convey("Given a request whose context is already cancelled", t, func() {
		svc := newService(qbCohort(20))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("Then the failure is classified as cancelled, not as a dataset outage", func() {
			_, err := svc.Model(ctx, service.ModelRequest{Season: season, Position: model.QB})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(service.ErrorKind(err), ShouldEqual, service.KindCanceled)
		})

		Convey("Then a cancellation wrapped by the dataset cache is still cancelled", func() {
			err := fmt.Errorf("%w: csv:x: %w", dataset.ErrUnavailable, context.Canceled)
			So(service.ErrorKind(err), ShouldEqual, service.KindCanceled)
			err = fmt.Errorf("%w: csv:x: %w", dataset.ErrUnavailable, context.DeadlineExceeded)
			So(service.ErrorKind(err), ShouldEqual, service.KindCanceled)
		})
	})
}

func TestModelRejectsNaNUsage(t *testing.T) {
	Convey("Given a NaN minimum usage", t, func() {
		svc := newService(qbCohort(20))
		nan := math.NaN()

		Convey("Then modeling and similarity both reject it", func() {
			_, err := svc.Model(context.Background(), service.ModelRequest{Season: season, Position: model.QB, MinUsage: &nan})
			So(errors.Is(err, position.ErrInvalidUsage), ShouldBeTrue)
			So(service.ErrorKind(err), ShouldEqual, service.KindInvalidUsage)

			_, err = svc.Similar(context.Background(), service.SimilarRequest{Season: season, Position: model.QB, MinUsage: &nan, Player: "QB 01"})
			So(errors.Is(err, position.ErrInvalidUsage), ShouldBeTrue)
		})
	})
}
