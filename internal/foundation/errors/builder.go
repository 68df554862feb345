package errors

// ErrorBuilder assembles a ClassifiedError:
//
//	WrapError(err, CategoryProcess, "command failed: doxygen").Fatal().WithContext("exit_code", 1).Build()
type ErrorBuilder struct {
	e ClassifiedError
}

// NewError starts an error of the given category with severity error.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{e: ClassifiedError{category: category, severity: SeverityError, message: message}}
}

// WrapError is NewError with err as the cause.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.e.cause = err
	return b
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	b.e.severity = SeverityFatal
	return b
}

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.e.context = b.e.context.with(key, value)
	return b
}

// Build returns the error. The builder may be reused; later calls do not affect it.
func (b *ErrorBuilder) Build() *ClassifiedError {
	e := b.e
	return &e
}

// The constructors below start fatal errors of one category.

func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal()
}

func NotFoundError(message string) *ErrorBuilder {
	return NewError(CategoryNotFound, message).Fatal()
}

func ProcessError(message string) *ErrorBuilder {
	return NewError(CategoryProcess, message).Fatal()
}

func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message).Fatal()
}

func RuntimeError(message string) *ErrorBuilder {
	return NewError(CategoryRuntime, message).Fatal()
}

func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
