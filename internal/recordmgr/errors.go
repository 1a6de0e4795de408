package recordmgr

import "errors"

var (
	ErrTableOpenFailed   = errors.New("recordmgr: table open failed")
	ErrTableDeleteFailed = errors.New("recordmgr: table delete failed")
	ErrInsertFailed      = errors.New("recordmgr: insert failed")
	ErrDeleteFailed      = errors.New("recordmgr: delete failed")
	ErrUpdateFailed      = errors.New("recordmgr: update failed")
	ErrNoSuchRecord      = errors.New("recordmgr: no such record")
)
