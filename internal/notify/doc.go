// Package notify delivers webhook notifications on sync state transitions.
//
// A Notifier tracks whether the pipeline is currently failing. The first
// failed run fires a "failed" event to every configured target (Slack,
// Microsoft Teams, or a generic JSON POST); the first successful run after a
// failure fires "recovered". Runs that do not change the state are silent.
//
// Delivery is best-effort: errors are logged and never affect the sync run.
package notify
