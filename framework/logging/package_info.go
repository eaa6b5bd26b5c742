// Package logging provides the process-wide named console loggers that the API tests write their
// progress messages to. Every logger shares one line format:
//
//	LEVEL - TIMESTAMP - SOURCE - MESSAGE
//
// where SOURCE is the logger name.
package logging
