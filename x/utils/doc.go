/*
Package utils provides decorators shared by every swapd extension.

They are meant to be chained in front of the message router, outermost
first: Recovery, Logging, Metrics, sigs, Savepoint, ActionTagger.
*/
package utils
