/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import "time"

const (
	UserAgent         = "dartsleague/0.1.0 (+https://github.com/mikeb26/dartsleague)"
	SessionBucket     = "bopmatic-dartsleague-prod-sessions"
	DefaultListenAddr = ":8080"
	DefaultSessionTTL = 12 * time.Hour
	RosterCacheMaxAge = 24 * time.Hour
)
