package analyzer

import (
	"fmt"

	"railspect/internal/railsapp"
)

// Default pool-size bounds flagged by the connection-pool check.
const (
	DefaultPoolMin = 5
	DefaultPoolMax = 20
)

// ConnectionOptions tunes the connection-settings checks.
type ConnectionOptions struct {
	PoolMin int
	PoolMax int
}

// DefaultConnectionOptions returns the built-in bounds.
func DefaultConnectionOptions() ConnectionOptions {
	return ConnectionOptions{PoolMin: DefaultPoolMin, PoolMax: DefaultPoolMax}
}

// AnalyzeConnectionSettings inspects every known environment of
// database.yml. Settings are read-only; absence of a setting is itself
// the signal for most checks.
func AnalyzeConnectionSettings(cfg railsapp.DatabaseConfig, opts ConnectionOptions) []Finding {
	var findings []Finding
	for _, env := range railsapp.Environments {
		s, ok := cfg[env]
		if !ok {
			continue
		}
		findings = append(findings, checkPool(s, env, opts)...)
		findings = append(findings, checkTimeouts(s, env)...)
		findings = append(findings, checkPreparedStatements(s, env)...)
		findings = append(findings, checkReaping(s, env)...)
		findings = append(findings, checkSSL(s, env)...)
	}
	return findings
}

func checkPool(s railsapp.Settings, env string, opts ConnectionOptions) []Finding {
	if !s.Has("pool") {
		return []Finding{{
			Type:        FindingPoolSize,
			Severity:    SeverityWarning,
			Environment: env,
			Setting:     "pool",
			Message:     "Connection pool size not explicitly set (defaults to 5)",
			Suggestion:  "Set pool size based on your application threads/workers. For Puma with 5 threads: pool: 5",
		}}
	}

	pool, ok := s.Int("pool")
	if !ok {
		// ERB-templated or otherwise non-numeric value; nothing to judge.
		return nil
	}

	switch {
	case pool < opts.PoolMin:
		return []Finding{{
			Type:        FindingPoolSize,
			Severity:    SeverityWarning,
			Environment: env,
			Setting:     "pool",
			Message:     fmt.Sprintf("Connection pool size (%d) is quite small", pool),
			Suggestion:  "Consider increasing pool size to match your web server threads/workers",
		}}
	case pool > opts.PoolMax:
		return []Finding{{
			Type:        FindingPoolSize,
			Severity:    SeverityInfo,
			Environment: env,
			Setting:     "pool",
			Message:     fmt.Sprintf("Connection pool size (%d) is quite large", pool),
			Suggestion:  "Verify this matches your actual concurrency needs. Too many connections can strain PostgreSQL",
		}}
	}
	return nil
}

func checkTimeouts(s railsapp.Settings, env string) []Finding {
	var findings []Finding

	if !s.Section("variables").Has("statement_timeout") {
		findings = append(findings, Finding{
			Type:        FindingStatementTimeout,
			Severity:    SeverityWarning,
			Environment: env,
			Setting:     "statement_timeout",
			Message:     "statement_timeout not configured",
			Suggestion:  "Add under variables: statement_timeout: 30000 (30 seconds in milliseconds)",
		})
	}

	if !s.Has("connect_timeout") {
		findings = append(findings, Finding{
			Type:        FindingConnectTimeout,
			Severity:    SeverityInfo,
			Environment: env,
			Setting:     "connect_timeout",
			Message:     "connect_timeout not configured",
			Suggestion:  "Add connect_timeout: 5 to prevent hanging on database connection issues",
		})
	}

	if !s.Has("checkout_timeout") {
		findings = append(findings, Finding{
			Type:        FindingCheckoutTimeout,
			Severity:    SeverityInfo,
			Environment: env,
			Setting:     "checkout_timeout",
			Message:     "checkout_timeout not configured (defaults to 5 seconds)",
			Suggestion:  "Explicitly set checkout_timeout: 5 for clarity",
		})
	}

	return findings
}

func checkPreparedStatements(s railsapp.Settings, env string) []Finding {
	if v, ok := s.Bool("prepared_statements"); ok && !v {
		return []Finding{{
			Type:        FindingPreparedStatements,
			Severity:    SeverityInfo,
			Environment: env,
			Setting:     "prepared_statements",
			Message:     "Prepared statements are disabled",
			Suggestion:  "Prepared statements improve performance. Only disable if using PgBouncer in transaction mode",
		}}
	}
	if !s.Has("prepared_statements") && env == "production" {
		return []Finding{{
			Type:        FindingPreparedStatements,
			Severity:    SeverityInfo,
			Environment: env,
			Setting:     "prepared_statements",
			Message:     "Prepared statements setting not explicit",
			Suggestion:  "Add prepared_statements: true for better query performance (enabled by default)",
		}}
	}
	return nil
}

func checkReaping(s railsapp.Settings, env string) []Finding {
	if s.Has("reaping_frequency") || env != "production" {
		return nil
	}
	return []Finding{{
		Type:        FindingReapingFrequency,
		Severity:    SeverityInfo,
		Environment: env,
		Setting:     "reaping_frequency",
		Message:     "reaping_frequency not configured",
		Suggestion:  "Consider adding reaping_frequency: 60 to clean up stale connections (seconds)",
	}}
}

func checkSSL(s railsapp.Settings, env string) []Finding {
	if env != "production" {
		return nil
	}
	sslmode, _ := s.String("sslmode")
	if sslmode != "" && sslmode != "disable" {
		return nil
	}
	return []Finding{{
		Type:        FindingSSLConfiguration,
		Severity:    SeverityWarning,
		Environment: env,
		Setting:     "sslmode",
		Message:     "SSL/TLS not enforced for production database connections",
		Suggestion:  "Add sslmode: require or sslmode: verify-full for secure connections",
	}}
}
