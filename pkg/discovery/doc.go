// Package discovery advertises relay servers over mDNS/DNS-SD and finds
// them from clients.
//
// A relay registers one instance of ServiceType. The TXT record carries the
// websocket path (path), the protocol revision (v) and the scanner backend
// the server runs (scanner). A browsing client joins the advertised
// addresses with port and path into a websocket URL.
package discovery
