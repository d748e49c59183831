package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "hoopdle")
				So(manager.subsystem, ShouldEqual, "game")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should stick", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "test-namespace")
				So(manager.subsystem, ShouldEqual, "test-subsystem")
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the package-level recorders", t, func() {
		Convey("Then game counters record without panicking", func() {
			So(func() {
				RecordGameStarted()
				RecordGuess()
				RecordGameWon()
				RecordGameLost()
				RecordDuplicateGuess()
				RecordRosterUpstreamError()
			}, ShouldNotPanic)
		})

		Convey("Then gauges accept updates", func() {
			So(func() {
				UpdateRosterPlayers(450)
				UpdateActiveSessions(12)
			}, ShouldNotPanic)
		})

		Convey("Then HTTP metrics accept label sets", func() {
			So(func() {
				RecordHTTPRequest("/api/start-game", "POST", "200")
				RecordHTTPRequestDuration("/api/start-game", "POST", "200", 42.0)
			}, ShouldNotPanic)
		})
	})
}

func TestRegistryContents(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		RecordGameStarted()
		families, err := GetRegistry().Gather()

		Convey("Then the game metrics are registered under the hoopdle namespace", func() {
			So(err, ShouldBeNil)

			names := make(map[string]bool, len(families))
			for _, f := range families {
				names[f.GetName()] = true
			}
			So(names["hoopdle_game_games_started_total"], ShouldBeTrue)
			So(names["hoopdle_game_active_sessions"], ShouldBeTrue)
			So(names["hoopdle_game_roster_players"], ShouldBeTrue)
		})
	})
}

func TestHandler(t *testing.T) {
	Convey("Given the metrics HTTP handler", t, func() {
		Convey("Then it is servable", func() {
			So(Handler(), ShouldNotBeNil)
		})
	})
}
