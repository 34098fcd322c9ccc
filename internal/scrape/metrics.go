package scrape

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// metricLinksDiscovered counts profile URLs found on listing pages.
	metricLinksDiscovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bnw_links_discovered_total",
		Help: "The total number of profile links discovered across cohorts.",
	})
	// metricProfilesFetched counts profile pages successfully rendered.
	metricProfilesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bnw_profiles_fetched_total",
		Help: "The total number of profile pages fetched.",
	})
	// metricChallengesDetected counts anti-bot interstitials encountered.
	metricChallengesDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bnw_challenges_detected_total",
		Help: "The total number of challenge pages detected during fetches.",
	})
	// metricNavigationFailures counts navigations abandoned on error.
	metricNavigationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bnw_navigation_failures_total",
		Help: "The total number of navigation or click failures skipped.",
	})
	// metricRecordsWritten counts rows appended to the raw store.
	metricRecordsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bnw_records_written_total",
		Help: "The total number of player-year rows appended to the store.",
	})
	// metricDuplicatesSkipped counts records dropped by the dedup ledger.
	metricDuplicatesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bnw_duplicates_skipped_total",
		Help: "The total number of records already present in the ledger.",
	})
)
