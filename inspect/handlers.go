package inspect

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ugparu/wlshm/resource"
	"github.com/ugparu/wlshm/shm"
	"github.com/ugparu/wlshm/snapshot"
)

type clientInfo struct {
	ID       string `json:"id"`
	Objects  int    `json:"objects"`
	NoMemory int    `json:"no_memory,omitempty"`
	Error    string `json:"error,omitempty"`
}

type poolInfo struct {
	Size   int32 `json:"size"`
	Refs   int32 `json:"refs"`
	Mapped bool  `json:"mapped"`
}

type bufferInfo struct {
	Width  int32  `json:"width"`
	Height int32  `json:"height"`
	Stride int32  `json:"stride"`
	Format string `json:"format"`
	Offset int32  `json:"offset"`
	Pool   uint32 `json:"pool,omitempty"`
}

type objectInfo struct {
	ID     uint32      `json:"id"`
	Kind   string      `json:"kind"`
	Pool   *poolInfo   `json:"pool,omitempty"`
	Buffer *bufferInfo `json:"buffer,omitempty"`
}

func (insp *Inspector) listClients(c *gin.Context) {
	clients := insp.display.Clients()
	out := make([]clientInfo, 0, len(clients))
	for _, cl := range clients {
		info := clientInfo{
			ID:       cl.ID().String(),
			Objects:  len(cl.Objects()),
			NoMemory: cl.NoMemoryCount(),
		}
		if perr := cl.Error(); perr != nil {
			info.Error = perr.Error()
		}
		out = append(out, info)
	}
	c.JSON(http.StatusOK, out)
}

func (insp *Inspector) client(c *gin.Context) (*resource.Client, bool) {
	id, err := uuid.Parse(c.Param("client"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return nil, false
	}
	cl, ok := insp.display.Client(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return nil, false
	}
	return cl, true
}

func (insp *Inspector) listObjects(c *gin.Context) {
	cl, ok := insp.client(c)
	if !ok {
		return
	}

	objs := cl.Objects()
	out := make([]objectInfo, 0, len(objs))
	for _, obj := range objs {
		info := objectInfo{ID: obj.ID(), Kind: obj.Kind().String()}
		if p, ok := shm.PoolFromObject(obj); ok {
			info.Pool = &poolInfo{Size: p.Size(), Refs: p.Refs(), Mapped: p.Mapped()}
		}
		if b, ok := shm.BufferFromObject(obj); ok {
			info.Buffer = &bufferInfo{
				Width:  b.Width(),
				Height: b.Height(),
				Stride: b.Stride(),
				Format: b.Format().String(),
				Offset: b.Offset(),
			}
			if p := b.Pool(); p != nil {
				info.Buffer.Pool = p.ID()
			}
		}
		out = append(out, info)
	}
	c.JSON(http.StatusOK, out)
}

func (insp *Inspector) bufferSnapshot(c *gin.Context) {
	cl, ok := insp.client(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid object id"})
		return
	}
	maxDim := insp.cfg.SnapshotMax
	if raw := c.Query("max"); raw != "" {
		if maxDim, err = strconv.Atoi(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max"})
			return
		}
		if maxDim <= 0 {
			maxDim = insp.cfg.SnapshotMax
		}
	}

	obj, ok := cl.Object(uint32(id))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "object not found"})
		return
	}
	buf, ok := shm.BufferFromObject(obj)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "object is not a shm buffer"})
		return
	}

	data, err := snapshot.PNG(buf, maxDim)
	switch {
	case errors.Is(err, snapshot.ErrReleased):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, snapshot.ErrFault), errors.Is(err, snapshot.ErrOutsidePool):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}
