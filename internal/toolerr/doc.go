// Package toolerr defines the structured errors returned by tool invocations:
// auth, unknown tool, invalid arguments, remote and storage failures.
// Remote failures carry a category derived from the Google API response.
package toolerr
