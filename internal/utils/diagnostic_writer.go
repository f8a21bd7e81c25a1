package utils

import (
	"io"
	"sync"
)

// DiagnosticWriter serializes writes from the logger and the diagnostic printer onto a
// single stream so their lines never interleave. Buffered streams are flushed after
// every write.
type DiagnosticWriter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewDiagnosticWriter wraps writer. Wrapping a DiagnosticWriter returns it unchanged.
func NewDiagnosticWriter(writer io.Writer) *DiagnosticWriter {
	if existing, alreadyWrapped := writer.(*DiagnosticWriter); alreadyWrapped {
		return existing
	}
	return &DiagnosticWriter{writer: writer}
}

// Write delegates to the underlying writer and flushes it when possible.
func (diagnosticWriter *DiagnosticWriter) Write(data []byte) (int, error) {
	if diagnosticWriter == nil || diagnosticWriter.writer == nil {
		return len(data), nil
	}

	diagnosticWriter.mutex.Lock()
	defer diagnosticWriter.mutex.Unlock()

	bytesWritten, writeError := diagnosticWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	return bytesWritten, diagnosticWriter.flushLocked()
}

// Sync flushes buffered data. It satisfies zapcore.WriteSyncer.
func (diagnosticWriter *DiagnosticWriter) Sync() error {
	if diagnosticWriter == nil || diagnosticWriter.writer == nil {
		return nil
	}

	diagnosticWriter.mutex.Lock()
	defer diagnosticWriter.mutex.Unlock()
	return diagnosticWriter.flushLocked()
}

func (diagnosticWriter *DiagnosticWriter) flushLocked() error {
	if flushableWriter, implementsFlush := diagnosticWriter.writer.(interface{ Flush() error }); implementsFlush {
		return flushableWriter.Flush()
	}
	return nil
}
