package storage

import (
	"fmt"
	"strings"
)

// Resource discriminates the records kept under one namespace.
type Resource string

const (
	ResourceStats   Resource = "stats"
	ResourceChats   Resource = "chats"
	ResourceMaps    Resource = "maps"
	ResourceTimer   Resource = "timer"
	ResourceUsers   Resource = "users"
	ResourceSession Resource = "session"
)

func (r Resource) IsValid() bool {
	switch r {
	case ResourceStats, ResourceChats, ResourceMaps, ResourceTimer, ResourceUsers, ResourceSession:
		return true
	default:
		return false
	}
}

// UserID identifies the owner of a namespace. The zero value is the global namespace.
type UserID string

const globalNamespace = "global"

type Key struct {
	User     UserID
	Resource Resource
}

func UserKey(user UserID, resource Resource) Key {
	return Key{User: user, Resource: resource}
}

func GlobalKey(resource Resource) Key {
	return Key{Resource: resource}
}

func (k Key) IsGlobal() bool {
	return strings.TrimSpace(string(k.User)) == ""
}

func (k Key) Namespace() string {
	if k.IsGlobal() {
		return globalNamespace
	}
	return "user:" + strings.TrimSpace(string(k.User))
}

func (k Key) String() string {
	return k.Namespace() + "/" + string(k.Resource)
}

func (k Key) Validate() error {
	if !k.Resource.IsValid() {
		return fmt.Errorf("%w: resource %q", ErrInvalidKey, k.Resource)
	}
	return nil
}
