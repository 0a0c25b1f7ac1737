// Package utils contains decorators shared by every safepay application:
// panic recovery, transaction logging, savepoints and action tagging.
package utils
