package logger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestNewGormLogger(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Info)

	require.NotNil(t, gl)
	assert.Equal(t, gormlogger.Info, gl.logLevel)
	assert.Equal(t, 200*time.Millisecond, gl.slowThreshold)
}

func TestGormLogger_LogMode(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Info)

	changed := gl.LogMode(gormlogger.Silent)

	// LogMode returns a copy, the original is untouched
	assert.Equal(t, gormlogger.Info, gl.logLevel)
	assert.Equal(t, gormlogger.Silent, changed.(*GormLogger).logLevel)
}

func TestGormLogger_Info(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info)

	gl.Info(context.Background(), "migrating %s", "products")

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "products")
}

func TestGormLogger_Info_Suppressed(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn)

	gl.Info(context.Background(), "should not appear")

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_Error(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "INSERT INTO products", 0
	}, assert.AnError)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "SQL Error", logs[0].Message)
	assert.Equal(t, "INSERT INTO products", logs[0].ContextMap()["sql"])
}

func TestGormLogger_Trace_RecordNotFoundIgnored(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM products WHERE id = 99", 0
	}, gormlogger.ErrRecordNotFound)

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_SlowQuery(t *testing.T) {
	core, recorded := observer.New(zapcore.WarnLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn)

	begin := time.Now().Add(-time.Second)
	gl.Trace(context.Background(), begin, func() (string, int64) {
		return "SELECT * FROM products", 100
	}, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
	assert.Contains(t, logs[0].Message, "SLOW SQL")
}

func TestGormLogger_Trace_NormalQuery(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM products", 10
	}, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "SQL Query", logs[0].Message)
	assert.Equal(t, int64(10), logs[0].ContextMap()["rows"])
}

func TestGormLogger_Trace_Silent(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, nil)

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_WithRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-789")
	gl.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM products", 5
	}, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "req-789", logs[0].ContextMap()["request_id"])
}

func TestGormLoggerImplementsInterface(t *testing.T) {
	var _ gormlogger.Interface = NewGormLogger(zap.NewNop(), gormlogger.Info)
}
