// Package inmemorystore keeps the status of every step of a run in memory:
// pending, running, completed, failed or skipped, with the error and the
// start and finish times. The app's /status endpoint reads its snapshots.
package inmemorystore
