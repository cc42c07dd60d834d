// Package config loads and watches the railmon configuration file.
//
// Load(path) parses the YAML file, applies defaults (15 minute poll interval,
// HTTP port 8080, personal token kind, public Railway endpoint) and validates
// enums: token_kind must be personal or team, interval_minutes must be one of
// 5/10/15/30/60, http.auth.mode apikey or none. Secrets (API token, read-API
// key, webhook URLs) are resolved from environment variables named in the
// file, never stored in it.
//
// Watch(ctx, path, onChange) uses fsnotify to reload the file on change, which
// is how a poll-interval edit takes effect without a restart. It survives the
// rename-then-create pattern of atomic-save editors by re-adding the watch.
package config
