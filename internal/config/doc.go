// Package config loads and watches the outagesync configuration file.
//
// Top-level types:
//   - Config{API, Sync, Admin, Notify} — full config tree parsed from YAML
//   - APIConfig — base_url, auth, timeout, max_retries, retry_backoff, tls
//   - AuthConfig — mode (apikey|bearer|none), header, key_env, token_env;
//     Key() and Token() resolve secrets from environment variables
//   - SyncConfig — site_id, interval (0 = run once)
//   - AdminConfig — diagnostics listener address
//   - NotifyConfig — webhook targets for failure notifications
//
// Load(path) reads the YAML file, applies defaults (10s timeout, 5 retries,
// 500ms initial backoff), then validates required fields and enums.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config. It handles the rename→create pattern
// used by atomic-save editors (vim, VS Code) by re-adding the watch after
// a rename event.
package config
