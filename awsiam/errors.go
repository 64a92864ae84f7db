package awsiam

const (
	DeleteConflict      = "DeleteConflict"
	EntityAlreadyExists = "EntityAlreadyExists"
	LimitExceeded       = "LimitExceeded"
	NoSuchEntity        = "NoSuchEntity"
)
