package web

// indexPage is the whole single-page UI. It talks to the JSON/SSE API and
// keeps no state of its own beyond what /api/session reports.
const indexPage = `<!DOCTYPE html>
<html>
<head>
<title>SynoptekGPT</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<style>
  body { margin: 0; font-family: sans-serif; display: flex; height: 100vh; }
  #sidebar { width: 280px; background: #f3f4f6; padding: 16px; overflow-y: auto; display: none; flex-direction: column; }
  #main { flex: 1; padding: 24px; overflow-y: auto; }
  #sidebar h3 { margin: 12px 0 4px; font-size: 13px; color: #6b7280; text-transform: uppercase; }
  #sidebar button { display: block; width: 100%; text-align: left; margin: 2px 0; padding: 6px 8px;
    border: none; background: none; cursor: pointer; border-radius: 6px; white-space: nowrap;
    overflow: hidden; text-overflow: ellipsis; }
  #sidebar button:hover { background: #e5e7eb; }
  #new-chat, #logout { background: #ffffff !important; border: 1px solid #d1d5db !important; }
  .msg { margin: 12px 0; max-width: 48em; }
  .msg .role { font-size: 12px; color: #6b7280; }
  .msg .content { white-space: pre-wrap; }
  form.card { max-width: 320px; margin: 80px auto; display: flex; flex-direction: column; gap: 8px; }
  form.card input { padding: 8px; }
  form.card button { padding: 8px; }
  #prompt-row { display: flex; gap: 8px; margin-top: 16px; }
  #prompt { flex: 1; padding: 10px; }
  #toast { position: fixed; top: 16px; right: 16px; background: #ecfdf5; color: #047857;
    font-weight: bold; padding: 10px 16px; border-radius: 8px; display: none; }
  .error { color: #b91c1c; }
  #qr { display: block; margin: 8px auto; }
</style>
</head>
<body>
<div id="sidebar">
  <button id="new-chat">New Chat</button>
  <div id="history"></div>
  <hr>
  <div id="hello"></div>
  <button id="logout">Logout</button>
</div>
<div id="main"></div>
<div id="toast"></div>
<script>
const main = document.getElementById('main');
const sidebar = document.getElementById('sidebar');
const toast = document.getElementById('toast');

function showToast(text) {
  toast.textContent = text;
  toast.style.display = 'block';
  setTimeout(() => { toast.style.display = 'none'; }, 5000);
}

async function api(path, opts) {
  const res = await fetch(path, Object.assign({headers: {'Content-Type': 'application/json'}}, opts));
  return res;
}

function renderLogin(errorMsg) {
  sidebar.style.display = 'none';
  main.innerHTML = '<form class="card" id="login-form">' +
    '<h1>Welcome! &#128075;</h1>' +
    '<p>Please enter your username and password to log in.</p>' +
    '<input id="username" placeholder="Username" autocomplete="username">' +
    '<input id="password" type="password" placeholder="Password" autocomplete="current-password">' +
    '<button type="submit">Login</button>' +
    (errorMsg ? '<p class="error">' + errorMsg + '</p>' : '') +
    '</form>';
  document.getElementById('login-form').onsubmit = async (e) => {
    e.preventDefault();
    const res = await api('/api/login', {method: 'POST', body: JSON.stringify({
      username: document.getElementById('username').value,
      password: document.getElementById('password').value})});
    if (!res.ok) {
      const body = await res.json().catch(() => ({}));
      renderLogin(body.error || 'Login failed.');
      return;
    }
    const body = await res.json();
    renderOTP(body.enrollment_pending, '');
  };
}

function renderOTP(showQR, errorMsg) {
  sidebar.style.display = 'none';
  main.innerHTML = '<form class="card" id="otp-form">' +
    '<h1>Welcome to SynoptekGPT!</h1>' +
    (showQR ? '<img id="qr" src="/api/otp/qr.png" width="200" height="200" ' +
      'alt="enrollment QR code">' +
      '<p>Scan this QR code with your authenticator app (Recommended: Google Authenticator)</p>' : '') +
    '<input id="otp" type="password" placeholder="Enter the OTP from your authenticator app" autocomplete="one-time-code">' +
    '<button type="submit">Verify OTP</button>' +
    (errorMsg ? '<p class="error">' + errorMsg + '</p>' : '') +
    '</form>';
  document.getElementById('otp-form').onsubmit = async (e) => {
    e.preventDefault();
    const res = await api('/api/otp/verify', {method: 'POST',
      body: JSON.stringify({code: document.getElementById('otp').value})});
    if (!res.ok) {
      const body = await res.json().catch(() => ({}));
      renderOTP(showQR, body.error || 'Verification failed.');
      return;
    }
    const body = await res.json();
    showToast('Welcome back, ' + body.name + '!');
    boot();
  };
}

function messageEl(role, content) {
  const div = document.createElement('div');
  div.className = 'msg';
  div.innerHTML = '<div class="role"></div><div class="content"></div>';
  div.querySelector('.role').textContent = role;
  div.querySelector('.content').textContent = content;
  return div;
}

function renderChat(state) {
  sidebar.style.display = 'flex';
  document.getElementById('hello').innerHTML = 'Hello, <i>' + state.name + '</i>';
  main.innerHTML = '<h1>Synoptek-GPT! &#129302;</h1><div id="messages"></div>' +
    '<div id="prompt-row"><input id="prompt" placeholder="Type here to Chat...">' +
    '<button id="send">Send</button></div>';

  const messages = document.getElementById('messages');
  const turns = state.turns || [];
  if (turns.length === 0) {
    messages.innerHTML = '<h4 style="text-align:center">Welcome to SynoptekGPT! ' +
      'Here you will be able to try out multiple models.</h4>';
  } else {
    for (const t of turns) messages.appendChild(messageEl(t.role, t.content));
  }

  document.getElementById('send').onclick = sendPrompt;
  document.getElementById('prompt').onkeydown = (e) => { if (e.key === 'Enter') sendPrompt(); };
  loadHistory();
}

async function loadHistory() {
  const res = await api('/api/history');
  if (!res.ok) return;
  const body = await res.json();
  const el = document.getElementById('history');
  el.innerHTML = '';
  for (const group of body.groups) {
    if (!group.items || group.items.length === 0) continue;
    const h = document.createElement('h3');
    h.textContent = group.name;
    el.appendChild(h);
    for (const item of group.items) {
      const b = document.createElement('button');
      b.textContent = item.title;
      b.onclick = async () => {
        const r = await api('/api/conversations/select', {method: 'POST',
          body: JSON.stringify({index: item.index})});
        if (r.ok) boot();
      };
      el.appendChild(b);
    }
  }
}

async function sendPrompt() {
  const input = document.getElementById('prompt');
  const prompt = input.value.trim();
  if (!prompt) return;
  input.value = '';

  const messages = document.getElementById('messages');
  if (messages.querySelector('h4')) messages.innerHTML = '';
  messages.appendChild(messageEl('user', prompt));
  const replyEl = messageEl('assistant', '');
  messages.appendChild(replyEl);
  const content = replyEl.querySelector('.content');

  const res = await fetch('/api/chat', {method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({prompt: prompt})});
  if (!res.ok) {
    content.textContent = 'An error occurred while generating the response.';
    return;
  }

  let text = '';
  const reader = res.body.getReader();
  const decoder = new TextDecoder();
  let buffer = '';
  for (;;) {
    const {done, value} = await reader.read();
    if (done) break;
    buffer += decoder.decode(value, {stream: true});
    const events = buffer.split('\n\n');
    buffer = events.pop();
    for (const raw of events) {
      let name = '', data = '';
      for (const line of raw.split('\n')) {
        if (line.startsWith('event: ')) name = line.slice(7);
        if (line.startsWith('data: ')) data = line.slice(6);
      }
      if (!name) continue;
      const payload = data ? JSON.parse(data) : {text: ''};
      if (name === 'delta') { text += payload.text; content.textContent = text + '▌'; }
      if (name === 'replace') { text = payload.text; content.textContent = text + '▌'; }
      if (name === 'notice') showToast(payload.text);
      if (name === 'done') content.textContent = text;
    }
  }
  content.textContent = text;
  loadHistory();
}

async function boot() {
  const res = await api('/api/session');
  if (!res.ok) { renderLogin(''); return; }
  const state = await res.json();
  if (!state.otp_verified) { renderOTP(state.enrollment_pending, ''); return; }
  if (state.show_welcome) showToast('Welcome back, ' + state.name + '!');
  renderChat(state);
}

document.getElementById('new-chat').onclick = async () => {
  await api('/api/chat/new', {method: 'POST'});
  boot();
};
document.getElementById('logout').onclick = async () => {
  await api('/api/logout', {method: 'POST'});
  renderLogin('');
};

boot();
</script>
</body>
</html>
`
