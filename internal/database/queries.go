/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

const (
	// Session queries
	queryGetSession = `
		SELECT user_id, name, email, token, created_at
		FROM sessions
		WHERE id = 1`

	queryUpsertSession = `
		INSERT INTO sessions (id, user_id, name, email, token, created_at)
		VALUES (1, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			name = excluded.name,
			email = excluded.email,
			token = excluded.token,
			created_at = excluded.created_at`

	queryDeleteSession = `
		DELETE FROM sessions`

	// Cookie queries
	queryGetCookies = `
		SELECT host, name, value, path, domain, expires_at, secure, http_only
		FROM cookies
		WHERE host = ?
		ORDER BY name, path`

	queryDeleteHostCookies = `
		DELETE FROM cookies WHERE host = ?`

	queryDeleteAllCookies = `
		DELETE FROM cookies`

	queryInsertCookie = `
		INSERT OR REPLACE INTO cookies (host, name, value, path, domain, expires_at, secure, http_only)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	// Export queries
	queryInsertExport = `
		INSERT INTO exports (id, user_id, title, path, row_count)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, user_id, title, path, row_count, created_at`

	queryListExports = `
		SELECT id, user_id, title, path, row_count, created_at
		FROM exports
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`
)
