package common

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	_ "seniorcarehub.xyz/tablet-mdm-service/pkg/testing"
)

func TestLoggingCapture(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	logger := GetLogger()
	logger.Info("Test log message", zap.String("key", "value"))

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Test log message") {
		t.Errorf("expected log output to contain message, got: %s", logOutput)
	}
}

func TestConcurrentLoggerAccess(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	// the getters only read the shared logger, so concurrent handlers
	// are safe under the race detector
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				GetLogger().Info("from handler")
			} else {
				GetLoggerWith(LoggerNameRestfulServer).Info("from handler")
			}
		}()
	}
	wg.Wait()

	if !strings.Contains(buf.String(), "from handler") {
		t.Errorf("expected captured output, got: %s", buf.String())
	}
}

func TestNamedCategoryLogger(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	logger := GetLoggerWith(LoggerNameMDMCore, zap.String(LoggerFieldMDMCategory, LoggerCategoryMDMQueue))
	logger.Info("Command enqueued")

	logOutput := buf.String()
	if !strings.Contains(logOutput, `"logger":"mdm_core"`) {
		t.Errorf("expected named logger in output, got: %s", logOutput)
	}
	if !strings.Contains(logOutput, `"category":"queue"`) {
		t.Errorf("expected category field in output, got: %s", logOutput)
	}
}
