package usecase


// DomainError is a business rule violation the caller can act on.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}


func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}


// TechnicalError is an infrastructure failure (database, broker).
// It is surfaced to the caller unchanged; there is no internal retry.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}


func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
