package task

import "strings"

// TaskInfo is the resolved form of a task body.
type TaskInfo struct {
	Name         string
	SourceCode   string
	Namespaces   Set
	References   Set
	CodeLanguage Language
	CodeType     CodeType
}

// Equal reports whether info and other have the same references and the same
// source code, ignoring case.
//
// Name, language, code type and namespaces are not compared. Two tasks that
// differ only in those are considered equal.
func (info *TaskInfo) Equal(other *TaskInfo) bool {
	if info == other {
		return true
	}

	if info == nil || other == nil {
		return false
	}

	return info.References.Equal(other.References) &&
		strings.EqualFold(info.SourceCode, other.SourceCode)
}

// Clone returns a copy of info that shares no storage with it.
func (info *TaskInfo) Clone() *TaskInfo {
	if info == nil {
		return nil
	}

	c := *info
	c.Namespaces = info.Namespaces.Clone()
	c.References = info.References.Clone()

	return &c
}

// HashCode returns a hash consistent with [TaskInfo.Equal]. It is constant.
func (info *TaskInfo) HashCode() int { return 0 }
