package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmllorens/cartero/internal/sentry"
)

func TestInitialize_WarningsAndErrorsFeedTelemetry(t *testing.T) {
	Initialize()
	t.Cleanup(Close)
	require.NotNil(t, globalLogFile)

	_, warnTee := WarningLog.Writer().(*sentry.Writer)
	_, errTee := ErrorLog.Writer().(*sentry.Writer)
	assert.True(t, warnTee, "warnings become breadcrumbs")
	assert.True(t, errTee, "errors become events")
	assert.Same(t, globalLogFile, InfoLog.Writer())
}
