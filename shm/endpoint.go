package shm

import (
	"errors"
	"fmt"

	"github.com/ugparu/wlshm"
	"github.com/ugparu/wlshm/utils/logger"
)

// Version is the interface version advertised for every shm object.
const Version = 1

// Endpoint is the per-bind wl_shm object. Its only request is create_pool.
type Endpoint struct {
	id uint32
}

// Init advertises the shm global on display.
func Init(display wlshm.Display) error {
	return display.CreateGlobal(wlshm.KindShm, Version, bind)
}

func bind(client wlshm.Client, _ uint32, id uint32) {
	obj, err := client.NewObject(wlshm.KindShm, Version, id)
	if err != nil {
		client.PostNoMemory()
		return
	}

	obj.SetImplementation(&Endpoint{id: id}, nil)
	for _, format := range wlshm.SupportedFormats {
		obj.PostEvent(wlshm.FormatEvent{Format: format})
	}
	logger.Debugf(client, "bound %s as %d", wlshm.KindShm, id)
}

// Kind returns KindShm.
func (*Endpoint) Kind() wlshm.ObjectKind {
	return wlshm.KindShm
}

func (e *Endpoint) String() string {
	return fmt.Sprintf("%s#%d", wlshm.KindShm, e.id)
}

// Dispatch handles create_pool.
func (e *Endpoint) Dispatch(obj wlshm.Object, req wlshm.Request) {
	switch r := req.(type) {
	case wlshm.CreatePool:
		e.createPool(obj, r)
	default:
		logger.Warningf(e, "unexpected request %T", req)
	}
}

func (e *Endpoint) createPool(obj wlshm.Object, req wlshm.CreatePool) {
	p, err := NewPool(req.Fd, req.Size)
	if err != nil {
		logger.Debugf(e, "create_pool %d failed: %v", req.ID, err)
		postError(obj, err)
		return
	}

	poolObj, err := obj.Client().NewObject(wlshm.KindShmPool, Version, req.ID)
	if err != nil {
		obj.Client().PostNoMemory()
		p.Unref()
		return
	}
	p.id = req.ID
	poolObj.SetImplementation(p, func(wlshm.Object) { p.Unref() })
}

// postError reports err on obj as a protocol error when it has a wire code.
func postError(obj wlshm.Object, err error) {
	var perr ProtocolError
	if errors.As(err, &perr) {
		obj.PostError(perr.Code(), perr.Error())
		return
	}
	logger.Errorf(obj.Client(), "unclassified failure on object %d: %v", obj.ID(), err)
	obj.Client().PostNoMemory()
}
