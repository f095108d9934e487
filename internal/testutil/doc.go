// Package testutil provides shared test helpers for devmock.
//
// # Timeouts
//
// The timeout.go file provides contexts that respect the test deadline:
//
//   - ContextWithTestDeadline(t, fallback) - test deadline minus a buffer
//   - ContextWithTimeout(t, timeout) - plain timeout, logged
//   - ShortOperationContext(t) - 30 second operations
//
// # Websocket clients
//
// The ws.go file dials the mock device the way the UI does:
//
//   - WSURL(httpURL) - converts an httptest URL to ws://
//   - DialWS(t, url) - dials and registers cleanup
//   - ReadEnvelope(t, conn, timeout) - reads and decodes one reply
//   - ReadEnvelopeOfType(t, conn, type, timeout) - skips other replies
//   - ExpectNoEnvelopeOfType(t, conn, type, wait) - asserts silence
//
// # Usage
//
//	func TestSomething(t *testing.T) {
//	    ts := httptest.NewServer(srv.Handler())
//	    conn := testutil.DialWS(t, testutil.WSURL(ts.URL))
//	    testutil.Send(t, conn, "1:")
//	    env := testutil.ReadEnvelopeOfType(t, conn, "sv.init.clock", time.Second)
//	}
package testutil
