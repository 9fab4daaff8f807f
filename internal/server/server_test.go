package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stableex/sx.dmdvaults/internal/core/asset"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/fixture"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/keylet"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/view"
	"github.com/stableex/sx.dmdvaults/internal/core/vault"
	"github.com/stableex/sx.dmdvaults/internal/storage/database/leveldb"
)

type response struct {
	Status       string          `json:"status"`
	Result       json.RawMessage `json:"result"`
	Error        string          `json:"error"`
	ErrorMessage string          `json:"error_message"`
	Type         string          `json:"type"`
	ID           json.RawMessage `json:"id"`
}

func setupServer(t *testing.T) (*httptest.Server, *view.Writer) {
	manager := leveldb.NewMemManager()
	t.Cleanup(func() {
		_ = manager.Close()
	})
	db, err := manager.OpenDB("ledger")
	require.NoError(t, err)

	f, err := fixture.Load("../core/ledger/fixture/testdata/vaults.yaml")
	require.NoError(t, err)
	w := view.NewWriter(db)
	_, err = fixture.Apply(context.Background(), w, f)
	require.NoError(t, err)

	oracle, err := vault.NewOracle(db)
	require.NoError(t, err)

	srv := New(oracle, Options{EnableWS: true, EnableMetrics: true}, nil)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, w
}

func get(t *testing.T, url string) (int, response) {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHealth(t *testing.T) {
	ts, _ := setupServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(vault.DefaultFee), body["fee"])
}

func TestReservesEndpoint(t *testing.T) {
	ts, _ := setupServer(t)

	tests := []struct {
		name   string
		query  string
		first  string
		second string
	}{
		{"legacy backed first", "vault=legacy", "55995.6259 DEOS", "57988.4608 EOS"},
		{"legacy base first", "vault=dmd.legacy&sort=EOS", "57988.4608 EOS", "55995.6259 DEOS"},
		{"multi base first", "vault=multi&sort=bg", "2500.0000 BG", "1000.0000 DBG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, ts.URL+"/reserves?"+tt.query)
			require.Equal(t, http.StatusOK, status, body.ErrorMessage)

			var pair PairJSON
			require.NoError(t, json.Unmarshal(body.Result, &pair))
			assert.Equal(t, tt.first, pair.First.Quantity)
			assert.Equal(t, tt.second, pair.Second.Quantity)
		})
	}
}

func TestAllReservesEndpoint(t *testing.T) {
	ts, _ := setupServer(t)

	status, body := get(t, ts.URL+"/all_reserves?sort_base=true")
	require.Equal(t, http.StatusOK, status)

	var pairs []PairJSON
	require.NoError(t, json.Unmarshal(body.Result, &pairs))
	require.Len(t, pairs, 2)
	assert.Equal(t, "dmd.legacy", pairs[0].Vault)
	assert.Equal(t, "57988.4608 EOS", pairs[0].First.Quantity)
	assert.Equal(t, "dmd.multi", pairs[1].Vault)
	assert.Equal(t, "eosio.token", pairs[0].First.Contract)

	status, body = get(t, ts.URL+"/all_reserves?sort_base=maybe")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, CodeInvalidParams, body.Error)
}

func TestQuoteEndpoint(t *testing.T) {
	ts, _ := setupServer(t)

	tests := []struct {
		name   string
		query  string
		out    string
		reason string
	}{
		{"legacy", "vault=legacy&in=1.0000+EOS&out=DEOS", "0.9647 DEOS", "ungated"},
		{"multi within unstaked balance", "vault=multi&in=1.0000+BG&out=DBG", "0.3995 DBG", "allowed"},
		{"multi over unstaked balance", "vault=multi&in=500.0000+BG&out=DBG", "0.0000 DBG", "overstaked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, ts.URL+"/quote?"+tt.query)
			require.Equal(t, http.StatusOK, status, body.ErrorMessage)

			var q QuoteJSON
			require.NoError(t, json.Unmarshal(body.Result, &q))
			assert.Equal(t, tt.out, q.Out.Quantity)
			assert.Equal(t, tt.reason, q.Reason)
			assert.Equal(t, vault.DefaultFee, q.Fee)
		})
	}
}

func TestErrorMapping(t *testing.T) {
	ts, w := setupServer(t)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"missing vault", "/reserves", http.StatusBadRequest, CodeInvalidParams},
		{"unknown vault", "/reserves?vault=triple", http.StatusBadRequest, CodeUnknownVault},
		{"symbol outside pair", "/reserves?vault=multi&sort=EOS", http.StatusBadRequest, CodePairNotAvailable},
		{"zero input", "/quote?vault=legacy&in=0.0000+EOS&out=DEOS", http.StatusBadRequest, CodeInvalidAmount},
		{"malformed input", "/quote?vault=legacy&in=EOS&out=DEOS", http.StatusBadRequest, CodeInvalidAmount},
		{"same symbol", "/quote?vault=legacy&in=1.0000+EOS&out=EOS", http.StatusBadRequest, CodePairNotAvailable},
		{"bad account", "/value?account=Not.Valid", http.StatusBadRequest, CodeInvalidParams},
		{"unknown method", "/swap", http.StatusNotFound, CodeUnknownMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, ts.URL+tt.path)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, tt.code, body.Error)
			assert.NotEmpty(t, body.ErrorMessage)
		})
	}

	t.Run("missing stake row", func(t *testing.T) {
		require.NoError(t, w.Erase(context.Background(), keylet.Stake(asset.MustName("dmddividends"), asset.MustName("dmddappvault"))))

		status, body := get(t, ts.URL+"/quote?vault=multi&in=1.0000+BG&out=DBG")
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, CodeMissingRow, body.Error)
	})
}

func TestValueEndpoint(t *testing.T) {
	ts, _ := setupServer(t)

	status, body := get(t, ts.URL+"/value?account=dvaultproxy1")
	require.Equal(t, http.StatusOK, status)

	var v ValueJSON
	require.NoError(t, json.Unmarshal(body.Result, &v))
	assert.Equal(t, "dvaultproxy1", v.Account)
	assert.Equal(t, "2000.0000 EOS", v.Value.Quantity)

	status, body = get(t, ts.URL+"/value?account=nobody")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body.Result, &v))
	assert.Equal(t, int64(0), v.Value.Amount)
}

func TestRPC(t *testing.T) {
	ts, _ := setupServer(t)

	post := func(t *testing.T, body string) (int, response) {
		resp, err := http.Post(ts.URL+"/rpc", "application/json", bytes.NewBufferString(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		var r response
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
		return resp.StatusCode, r
	}

	status, body := post(t, `{"method":"fee"}`)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"fee":10}`, string(body.Result))

	status, body = post(t, `{"method":"quote","params":[{"vault":"legacy","in":"1.0000 EOS","out":"DEOS"}]}`)
	require.Equal(t, http.StatusOK, status, body.ErrorMessage)
	var q QuoteJSON
	require.NoError(t, json.Unmarshal(body.Result, &q))
	assert.Equal(t, "0.9647 DEOS", q.Out.Quantity)

	status, body = post(t, `{"params":[]}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, CodeInvalidParams, body.Error)

	status, _ = post(t, `not json`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestMetrics(t *testing.T) {
	ts, _ := setupServer(t)

	get(t, ts.URL+"/quote?vault=multi&in=500.0000+BG&out=DBG")
	get(t, ts.URL+"/reserves?vault=triple")

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(raw)

	assert.True(t, strings.Contains(text, `dmdvaults_gate_decisions_total{reason="overstaked",vault="dmd.multi"} 1`), text)
	assert.True(t, strings.Contains(text, `dmdvaults_requests_total{code="unknownVault",method="reserves",transport="http"} 1`), text)
}

func TestOptionalEndpointsDisabled(t *testing.T) {
	manager := leveldb.NewMemManager()
	defer manager.Close()
	db, err := manager.OpenDB("ledger")
	require.NoError(t, err)
	oracle, err := vault.NewOracle(db)
	require.NoError(t, err)

	srv := New(oracle, Options{}, nil)
	for _, path := range []string{"/metrics", "/ws"} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		// falls through to the method route
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}
