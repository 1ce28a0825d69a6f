// Package predictform provides a mountable net/http component that serves the
// prediction form as a server-rendered HTML page.
//
// GET and HEAD render the caller's current form. POST applies the submitted
// fields, sends them to the prediction service and renders the outcome. Each
// browser session, identified by a cookie, owns its own form controller;
// sessions idle for longer than the configured TTL are dropped on the next
// request and the least recently used session is evicted once the cap is
// reached.
package predictform
