package repository

import "errors"

var ErrNotFound = errors.New("not found")

// 一意制約違反（同じ決済参照で2件目の注文など）
var ErrDuplicate = errors.New("duplicate")
