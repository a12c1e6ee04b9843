// Package wealth tracks a personal portfolio against a benchmark security.
//
// The portfolio itself lives in a spreadsheet: a worksheet of holdings
// (cost and market value per line) and a worksheet logging every buy.
// Each time the user asks for it, the Tracker records today's cost and value
// into a persisted history and recomputes what the very same cash flows would
// be worth if they had been invested into the benchmark instead.
//
// The core functionalities include:
//   - History: one HistoryRow per calendar date, persisted through a HistoryStore.
//   - Replay: Recompute re-derives every benchmark column from the seed row and
//     the full transaction log, so that a back-dated buy corrects every
//     subsequent day.
//   - Performance: percentage comparisons, holdings summaries and allocation by
//     type for the presentation layer.
//
// Collaborators (prices, spreadsheet, storage) are injected through the
// PriceSource, SnapshotSource and HistoryStore interfaces, implemented by the
// eodhd, sheet and store packages.
package wealth
