/*
Package errors implements custom error interfaces for safepay.

Reuse the root errors declared in this package whenever possible and
register an extension specific error only when none of them describes the
failure. x/grant declares a few of its own, everything else is built on the
common set.

If you want to register a custom error, use Register(code, description).
Code stands for ABCI error code, which allows clients to distinguish types of
errors and act accordingly.

Create an error instance at the place it happens with errors.Wrap(ErrXyz,
"...") so that a stacktrace is attached. Wrapping multiple times records the
stacktrace only for the innermost wrap. Do not declare wrapped errors as
package variables, the stacktrace would point to the package initialization.

Once you have an error, you can use fmt to get more context
	%s is just the error message
	%+v is the full stack trace
*/
package errors
