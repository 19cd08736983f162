package crm

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/growthops/leadops-cli/internal/model"
)

// OpenFunc yields the raw bytes of a CRM CSV export.
type OpenFunc func(ctx context.Context) (io.ReadCloser, error)

// CSVSource reads the CRM extract from a periodic CSV export instead
// of the live API. Where the export and the API disagree, the export
// wins for that run; there is no merging.
type CSVSource struct {
	open OpenFunc
}

// NewCSVSource builds a Source over any export opener.
func NewCSVSource(open OpenFunc) *CSVSource {
	return &CSVSource{open: open}
}

// NewHTTPCSVSource downloads the export from a URL.
func NewHTTPCSVSource(client *http.Client, url string) *CSVSource {
	if client == nil {
		client = http.DefaultClient
	}
	return NewCSVSource(func(ctx context.Context) (io.ReadCloser, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, eris.Wrap(err, "crm: build export request")
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "crm: download export")
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close() //nolint:errcheck
			return nil, eris.New(fmt.Sprintf("crm: download export: status %d", resp.StatusCode))
		}
		return resp.Body, nil
	})
}

// NewFTPCSVSource retrieves the export from an FTP dropzone.
func NewFTPCSVSource(addr, user, pass, path string) *CSVSource {
	return NewCSVSource(func(ctx context.Context) (io.ReadCloser, error) {
		conn, err := ftp.Dial(addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(30*time.Second))
		if err != nil {
			return nil, eris.Wrap(err, "crm: ftp dial")
		}
		if err := conn.Login(user, pass); err != nil {
			conn.Quit() //nolint:errcheck
			return nil, eris.Wrap(err, "crm: ftp login")
		}
		resp, err := conn.Retr(path)
		if err != nil {
			conn.Quit() //nolint:errcheck
			return nil, eris.Wrap(err, fmt.Sprintf("crm: ftp retrieve %s", path))
		}
		return &ftpFile{Response: resp, conn: conn}, nil
	})
}

// ftpFile ties the connection's lifetime to the retrieved file.
type ftpFile struct {
	*ftp.Response
	conn *ftp.ServerConn
}

func (f *ftpFile) Close() error {
	err := f.Response.Close()
	if qerr := f.conn.Quit(); err == nil {
		err = qerr
	}
	return err
}

func (s *CSVSource) Fetch(ctx context.Context) ([]model.CrmRecord, error) {
	body, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	dec, err := csvutil.NewDecoder(csv.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "crm: read export header")
	}

	var recs []model.CrmRecord
	for {
		var rec model.CrmRecord
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrap(err, "crm: decode export row")
		}
		recs = append(recs, rec)
	}

	zap.L().Debug("csv extract fetched", zap.Int("records", len(recs)))
	return recs, nil
}
