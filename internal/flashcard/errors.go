package flashcard

import "errors"

var (
	ErrCardNotFound          = errors.New("card not found")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrEmptyName             = errors.New("category name must not be empty")
	ErrCategoryNameTaken     = errors.New("category name already exists")
	ErrUncategorizedReadOnly = errors.New("the Uncategorized category cannot be modified")
)
