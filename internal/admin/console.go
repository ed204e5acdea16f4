// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package admin

// consoleHTML is a single-page dashboard for /admin: it reads
// /admin/settings, /admin/routes and /admin/features-manifest, renders
// toggles for enabled features and disabled routes, and POSTs patches
// back through the same endpoints.
const consoleHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Plugin Host Admin</title>
  <style>
    body { font-family: system-ui, sans-serif; margin: 0; background: #0b1220; color: #e2e8f0; }
    header { padding: 16px 24px; border-bottom: 1px solid #23304d; }
    main { display: grid; grid-template-columns: 220px 1fr; gap: 16px; padding: 24px; }
    nav a { display: block; padding: 6px 0; color: #cbd5e1; text-decoration: none; cursor: pointer; }
    nav a.active { color: #fff; font-weight: 600; }
    section { display: none; }
    section.active { display: block; }
    .card { background: #131a2b; border: 1px solid #23304d; border-radius: 10px; padding: 16px; margin-bottom: 12px; }
    code { background: #0f172a; padding: 2px 6px; border-radius: 6px; }
    label { display: flex; justify-content: space-between; padding: 6px 0; }
  </style>
</head>
<body>
  <header><strong>Plugin Host</strong> admin console</header>
  <main>
    <nav>
      <a data-section="overview" class="active">Overview</a>
      <a data-section="modules">Modules</a>
      <a data-section="routes">Routes</a>
      <a data-section="features">Features</a>
    </nav>
    <div>
      <section id="overview" class="active card">
        <h3>Settings</h3>
        <label>Rate limiting <input type="checkbox" data-key="rate_limit_enabled"></label>
        <label>WAF <input type="checkbox" data-key="waf_enabled"></label>
        <label>OAuth2 <input type="checkbox" data-key="oauth2_enabled"></label>
        <label>CORS <input type="checkbox" data-key="cors_enabled"></label>
        <button id="reload">Reload now</button>
      </section>
      <section id="modules" class="card">
        <h3>Deployed modules</h3>
        <ul id="modules-list"></ul>
      </section>
      <section id="routes" class="card">
        <h3>Routes</h3>
        <div id="routes-list"></div>
      </section>
      <section id="features" class="card">
        <h3>Feature manifests</h3>
        <div id="features-list"></div>
      </section>
    </div>
  </main>
  <script>
    function show(name) {
      document.querySelectorAll('section').forEach(s => s.classList.toggle('active', s.id === name));
      document.querySelectorAll('nav a').forEach(a => a.classList.toggle('active', a.dataset.section === name));
    }
    document.querySelectorAll('nav a').forEach(a => a.addEventListener('click', () => show(a.dataset.section)));

    async function patchSettings(partial) {
      await fetch('/admin/settings', { method: 'POST', headers: {'Content-Type':'application/json'}, body: JSON.stringify(partial) });
    }

    async function init() {
      const s = await (await fetch('/admin/settings')).json();
      document.querySelectorAll('[data-key]').forEach(el => {
        el.checked = !!s.settings[el.dataset.key];
        el.addEventListener('change', () => patchSettings({ [el.dataset.key]: el.checked }));
      });
      document.getElementById('modules-list').innerHTML = (s.modules||[]).map(m => '<li><code>'+m+'</code></li>').join('');

      const routes = await (await fetch('/admin/routes')).json();
      document.getElementById('routes-list').innerHTML = (routes.groups||[]).map(g =>
        '<div><strong>'+g.module+'</strong><ul>' + g.routes.map(r => '<li><code>'+r+'</code></li>').join('') + '</ul></div>'
      ).join('');

      const manifests = await (await fetch('/admin/features-manifest')).json();
      document.getElementById('features-list').innerHTML = (manifests||[]).map(m =>
        '<div><strong>'+m.name+'</strong> — '+ (m.label||'') +'</div>'
      ).join('');
    }

    document.getElementById('reload').addEventListener('click', () => fetch('/admin/reload', { method: 'POST' }));
    init().catch(e => console.error('admin console init failed', e));
  </script>
</body>
</html>`
